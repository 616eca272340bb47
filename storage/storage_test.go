package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, "http://localhost:8080/uploads/")
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "b1_1700000000000.png", "image/png", []byte("png")))
	data, err := os.ReadFile(filepath.Join(dir, "b1_1700000000000.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "http://localhost:8080/uploads/b1_1700000000000.png", store.PublicURL("b1_1700000000000.png"))

	require.NoError(t, store.Delete(ctx, "b1_1700000000000.png"))
	_, err = os.Stat(filepath.Join(dir, "b1_1700000000000.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "b1_1700000000000.png"))
}

func TestDiskStoreKeepsObjectsInsideDir(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(filepath.Join(dir, "uploads"), "http://x/uploads")

	require.NoError(t, store.Upload(context.Background(), "../escape.png", "image/png", []byte("x")))
	_, err := os.Stat(filepath.Join(dir, "uploads", "escape.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.Error(t, store.Upload(context.Background(), "", "image/png", nil))
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	deleted []string
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, f.err
}

func TestS3StoreUpload(t *testing.T) {
	api := &fakeS3{}
	store := &S3Store{client: api, Bucket: "transaction-screenshots", Region: "eu-west-1"}

	require.NoError(t, store.Upload(context.Background(), "b1_1.jpg", "image/jpeg", []byte("jpeg")))
	assert.Equal(t, "transaction-screenshots", aws.ToString(api.put.Bucket))
	assert.Equal(t, "b1_1.jpg", aws.ToString(api.put.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(api.put.ContentType))
	assert.Equal(t, "jpeg", string(api.body))

	require.NoError(t, store.Delete(context.Background(), "b1_1.jpg"))
	assert.Equal(t, []string{"b1_1.jpg"}, api.deleted)
}

func TestS3StoreUploadError(t *testing.T) {
	store := &S3Store{client: &fakeS3{err: errors.New("denied")}, Bucket: "b"}
	err := store.Upload(context.Background(), "k.png", "image/png", []byte("x"))
	assert.ErrorContains(t, err, "denied")
}

func TestS3StorePublicURL(t *testing.T) {
	store := &S3Store{Bucket: "transaction-screenshots", Region: "eu-west-1"}
	assert.Equal(t, "https://transaction-screenshots.s3.eu-west-1.amazonaws.com/b1_1.png", store.PublicURL("b1_1.png"))

	store.PublicBase = "https://cdn.example/shots/"
	assert.Equal(t, "https://cdn.example/shots/b1_1.png", store.PublicURL("b1_1.png"))
}
