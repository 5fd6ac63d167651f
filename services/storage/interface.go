package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrArchiveDisabled is returned when no archive backend is configured.
var ErrArchiveDisabled = errors.New("audio archive is not configured")

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryArchive keeps consultation recordings after they are
// transcribed, one upload per file into a Cloudinary folder.
type CloudinaryArchive struct {
	upload uploadAPI
	folder string
}

// NewCloudinaryArchive builds an archive from a cloudinary:// URL.
func NewCloudinaryArchive(cloudinaryURL, folder string) (*CloudinaryArchive, error) {
	if cloudinaryURL == "" {
		return nil, ErrArchiveDisabled
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("storage.NewCloudinaryArchive: failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryArchive{upload: &cld.Upload, folder: folder}, nil
}
