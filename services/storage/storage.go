package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Cloudinary stores audio under the "video" resource type.
const audioResourceType = "video"

// ArchiveAudio uploads the recording and returns its public ID.
func (s *CloudinaryArchive) ArchiveAudio(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("CloudinaryArchive: empty audio")
	}
	params := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID(filename),
		ResourceType: audioResourceType,
	}
	result, err := s.upload.Upload(ctx, bytes.NewReader(audio), params)
	if err != nil {
		return "", fmt.Errorf("CloudinaryArchive: failed to upload audio: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("CloudinaryArchive: upload rejected: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("CloudinaryArchive: no public ID returned")
	}
	return result.PublicID, nil
}

// publicID keeps the upload's base name recognizable and unique.
func publicID(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." || base == "/" {
		base = "audio"
	}
	return base + "-" + uuid.New().String()
}
