package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/config"
	"retail-nso/admin-portal/admin-portal-backend/internal/outlets"
)

// ErrNoDocument is returned for tasks without a previewable document.
var ErrNoDocument = errors.New("documents: task has no document to preview")

// Presigner turns an S3 object key into a time-limited preview URL.
type Presigner interface {
	PresignGet(ctx context.Context, bucket, key string) (string, error)
}

// Service resolves preview URLs for task documents. Absolute http(s) URLs
// from the upstream pass through; s3 keys get a presigned URL against the
// configured document bucket.
type Service struct {
	presigner Presigner
	cfg       config.PreviewConfig
	logger    *zap.Logger
}

// NewService creates the document preview service
func NewService(presigner Presigner, cfg config.PreviewConfig, logger *zap.Logger) *Service {
	return &Service{presigner: presigner, cfg: cfg, logger: logger}
}

// PreviewURL resolves the preview URL for a task's document. A task can only
// be previewed when it carries a non-empty file URL.
func (s *Service) PreviewURL(ctx context.Context, task *outlets.Task) (string, error) {
	if !task.CanPreview() {
		return "", ErrNoDocument
	}

	fileURL := task.Document.FileURL
	if strings.HasPrefix(fileURL, "http://") || strings.HasPrefix(fileURL, "https://") {
		return fileURL, nil
	}

	bucket := s.cfg.S3Bucket
	key := fileURL
	if after, ok := strings.CutPrefix(fileURL, "s3://"); ok {
		if b, k, found := strings.Cut(after, "/"); found {
			bucket, key = b, k
		}
	}
	if bucket == "" {
		return "", fmt.Errorf("documents: no preview bucket configured for key %q", key)
	}
	if s.presigner == nil {
		return "", fmt.Errorf("documents: presigning unavailable for key %q", key)
	}

	url, err := s.presigner.PresignGet(ctx, bucket, key)
	if err != nil {
		s.logger.Warn("Presign failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err))
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return url, nil
}

// LegalDocuments returns the previewable tasks of the Legal stage; every
// other stage yields nothing. This backs the legal-document quick previews
// on the outlet detail screen.
func LegalDocuments(stage *outlets.Stage) []outlets.Task {
	if stage == nil || stage.StageName != "Legal" {
		return nil
	}
	var docs []outlets.Task
	for _, t := range stage.Tasks {
		if t.CanPreview() {
			docs = append(docs, t)
		}
	}
	return docs
}
