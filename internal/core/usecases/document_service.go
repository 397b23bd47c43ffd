package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelterly/shelterly/internal/core/domain"
	"github.com/shelterly/shelterly/internal/core/ports"
)

// docPathPrefix scopes every uploaded document under a per-user prefix so
// path ownership is auditable by construction.
const docPathPrefix = "verification-docs"

// DocumentService sequences verification-document uploads: blob write first,
// then the profile metadata write, with a compensating blob delete when the
// second step fails.
type DocumentService struct {
	profiles ports.ProfileRepository
	storage  ports.BlobStorage
	events   ports.EventPublisher
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(profiles ports.ProfileRepository, storage ports.BlobStorage, events ports.EventPublisher) *DocumentService {
	return &DocumentService{profiles: profiles, storage: storage, events: events}
}

// Upload writes the file to blob storage under a deterministic per-user path
// and records that path on the caller's profile.
//
// The two steps are strictly sequential. A storage failure surfaces as
// domain.ErrUploadFailed with nothing referenced; a metadata failure after a
// successful blob write deletes the orphaned blob (best-effort, logged) and
// surfaces as domain.ErrPersistFailed. No profile ever references a path that
// does not exist in storage.
func (s *DocumentService) Upload(ctx context.Context, userID, filename, contentType string, data []byte) (*domain.UploadResult, error) {
	now := time.Now()
	path := fmt.Sprintf("%s/%s/%d-%s", docPathPrefix, userID, now.UnixMilli(), filename)

	if err := s.storage.Put(ctx, path, data, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	if err := s.profiles.SetVerificationDocPath(ctx, userID, path); err != nil {
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			// Cleanup is best-effort; observable, never escalated.
			slog.Error("orphaned blob cleanup failed", "path", path, "error", delErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}

	if s.events != nil {
		if err := s.events.PublishDocumentUploaded(ctx, userID, path); err != nil {
			slog.Warn("publish document.uploaded failed", "profile_id", userID, "error", err)
		}
	}

	return &domain.UploadResult{VerificationDocPath: path, UploadedAt: now}, nil
}
