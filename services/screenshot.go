package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const MaxScreenshotBytes = 5 << 20

// screenshotExts maps the accepted image types to the extension used for the
// stored object.
var screenshotExts = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Screenshot is a payment proof image that passed validation.
type Screenshot struct {
	Data        []byte
	ContentType string
	Ext         string
}

// ReadScreenshot is the single check every booking entry point runs on an
// uploaded payment screenshot.
func ReadScreenshot(fh *multipart.FileHeader) (*Screenshot, error) {
	if fh == nil {
		return nil, nil
	}
	if fh.Size > MaxScreenshotBytes {
		return nil, ValidationError{Message: "File size must be less than 5MB"}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open screenshot: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxScreenshotBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	return NewScreenshot(fh.Filename, data)
}

// NewScreenshot validates an uploaded image. The stored extension follows the
// sniffed content; the client filename is not trusted.
func NewScreenshot(_ string, data []byte) (*Screenshot, error) {
	if len(data) > MaxScreenshotBytes {
		return nil, ValidationError{Message: "File size must be less than 5MB"}
	}
	if len(data) == 0 {
		return nil, ValidationError{Message: "Please upload an image file"}
	}

	contentType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	ext, ok := screenshotExts[contentType]
	if !ok {
		return nil, ValidationError{Message: "Please upload an image file"}
	}
	return &Screenshot{Data: data, ContentType: contentType, Ext: ext}, nil
}
