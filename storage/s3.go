package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"pension-backend/config"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps objects in a public-read bucket. PublicBase overrides the
// virtual-hosted bucket URL (CDN or S3-compatible endpoint).
type S3Store struct {
	client     s3API
	Bucket     string
	Region     string
	PublicBase string
}

func NewS3Store(ctx context.Context, s *config.Settings) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(s.S3Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(s.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := s.S3PublicURL
	if publicBase == "" && s.S3Endpoint != "" {
		publicBase = strings.TrimRight(s.S3Endpoint, "/") + "/" + s.S3Bucket
	}
	return &S3Store{client: client, Bucket: s.S3Bucket, Region: s.S3Region, PublicBase: publicBase}, nil
}

func (st *S3Store) Upload(ctx context.Context, name, contentType string, data []byte) error {
	_, err := st.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(st.Bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", name, err)
	}
	return nil
}

func (st *S3Store) Delete(ctx context.Context, name string) error {
	_, err := st.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(st.Bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", name, err)
	}
	return nil
}

func (st *S3Store) PublicURL(name string) string {
	key := url.PathEscape(name)
	if st.PublicBase != "" {
		return strings.TrimRight(st.PublicBase, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", st.Bucket, st.Region, key)
}
