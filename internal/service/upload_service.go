package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/media/sniffer"
	"lumenstudio/api/internal/storage"
)

// MaxUploadBytes caps featured-image uploads at 5 MiB.
const MaxUploadBytes = 5 << 20

type UploadResult struct {
	URL         string
	Key         string
	ContentType string
	SizeBytes   int64
}

// UploadService validates and stores featured-image uploads.
type UploadService struct {
	store *storage.ObjectStore
	log   zerolog.Logger
}

func NewUploadService(store *storage.ObjectStore, log zerolog.Logger) *UploadService {
	return &UploadService{store: store, log: log}
}

// Upload sniffs the file content, rejects anything but jpeg/png/gif/webp or
// over the size cap, and stores the object under a date-prefixed random key.
func (s *UploadService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (UploadResult, error) {
	if file == nil || header == nil {
		return UploadResult{}, apperr.Validation("no file uploaded")
	}
	if header.Size > MaxUploadBytes {
		return UploadResult{}, apperr.Validation("file exceeds the 5MB limit")
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return UploadResult{}, apperr.Validation("empty file")
	}
	if len(data) > MaxUploadBytes {
		return UploadResult{}, apperr.Validation("file exceeds the 5MB limit")
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	result, err := sniffer.DetectHead(head)
	if err != nil {
		return UploadResult{}, apperr.Validation("invalid file type: only JPEG, PNG, GIF and WebP are allowed")
	}

	if declared := sniffer.DeclaredMIME(header.Header); declared != "" && declared != result.MIME {
		return UploadResult{}, apperr.Validation("content type does not match file contents")
	}

	key := buildObjectKey(string(result.Type))
	url, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), result.MIME)
	if err != nil {
		return UploadResult{}, err
	}

	s.log.Info().Str("key", key).Int("size", len(data)).Str("mime", result.MIME).Msg("asset uploaded")

	return UploadResult{
		URL:         url,
		Key:         key,
		ContentType: result.MIME,
		SizeBytes:   int64(len(data)),
	}, nil
}

func buildObjectKey(ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, fmt.Sprintf("%s.%s", uuid.NewString(), ext))
}
