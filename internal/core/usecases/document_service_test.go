package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shelterly/shelterly/internal/core/domain"
	"github.com/shelterly/shelterly/internal/core/usecases"
)

// --- Mock BlobStorage ---

type mockStorage struct {
	putFn    func(ctx context.Context, path string, data []byte, contentType string) error
	deleteFn func(ctx context.Context, path string) error

	putPaths    []string
	deletePaths []string
}

func (m *mockStorage) Put(ctx context.Context, path string, data []byte, contentType string) error {
	m.putPaths = append(m.putPaths, path)
	if m.putFn != nil {
		return m.putFn(ctx, path, data, contentType)
	}
	return nil
}

func (m *mockStorage) Delete(ctx context.Context, path string) error {
	m.deletePaths = append(m.deletePaths, path)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, path)
	}
	return nil
}

func TestUpload_Success(t *testing.T) {
	var persistedPath string
	repo := &mockProfileRepo{
		setDocPathFn: func(ctx context.Context, id, path string) error {
			persistedPath = path
			return nil
		},
	}
	storage := &mockStorage{}
	svc := usecases.NewDocumentService(repo, storage, nil)

	res, err := svc.Upload(context.Background(), "user-1", "krs.pdf", "application/pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(res.VerificationDocPath, "verification-docs/user-1/") {
		t.Errorf("path not scoped under user prefix: %s", res.VerificationDocPath)
	}
	if !strings.HasSuffix(res.VerificationDocPath, "-krs.pdf") {
		t.Errorf("path missing original filename: %s", res.VerificationDocPath)
	}
	if persistedPath != res.VerificationDocPath {
		t.Errorf("persisted path %q differs from returned path %q", persistedPath, res.VerificationDocPath)
	}
	if len(storage.deletePaths) != 0 {
		t.Errorf("unexpected cleanup on success: %v", storage.deletePaths)
	}
	if res.UploadedAt.IsZero() {
		t.Error("uploaded_at not set")
	}
}

func TestUpload_BlobWriteFails(t *testing.T) {
	persistCalled := false
	repo := &mockProfileRepo{
		setDocPathFn: func(ctx context.Context, id, path string) error {
			persistCalled = true
			return nil
		},
	}
	storage := &mockStorage{
		putFn: func(ctx context.Context, path string, data []byte, contentType string) error {
			return errors.New("bucket unavailable")
		},
	}
	svc := usecases.NewDocumentService(repo, storage, nil)

	_, err := svc.Upload(context.Background(), "user-1", "krs.pdf", "application/pdf", nil)
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if persistCalled {
		t.Error("profile mutation attempted after failed blob write")
	}
	if len(storage.deletePaths) != 0 {
		t.Errorf("no blob to clean up, but delete was called: %v", storage.deletePaths)
	}
}

func TestUpload_PersistFailsCompensates(t *testing.T) {
	repo := &mockProfileRepo{
		setDocPathFn: func(ctx context.Context, id, path string) error {
			return errors.New("row locked")
		},
	}
	storage := &mockStorage{}
	svc := usecases.NewDocumentService(repo, storage, nil)

	_, err := svc.Upload(context.Background(), "user-1", "krs.pdf", "application/pdf", nil)
	if !errors.Is(err, domain.ErrPersistFailed) {
		t.Fatalf("expected ErrPersistFailed, got %v", err)
	}
	if len(storage.deletePaths) != 1 {
		t.Fatalf("expected exactly one cleanup delete, got %d", len(storage.deletePaths))
	}
	if storage.deletePaths[0] != storage.putPaths[0] {
		t.Errorf("cleanup deleted %q but wrote %q", storage.deletePaths[0], storage.putPaths[0])
	}
}

func TestUpload_CleanupFailureNotEscalated(t *testing.T) {
	repo := &mockProfileRepo{
		setDocPathFn: func(ctx context.Context, id, path string) error {
			return errors.New("row locked")
		},
	}
	storage := &mockStorage{
		deleteFn: func(ctx context.Context, path string) error {
			return errors.New("delete also failed")
		},
	}
	svc := usecases.NewDocumentService(repo, storage, nil)

	_, err := svc.Upload(context.Background(), "user-1", "krs.pdf", "application/pdf", nil)
	// The cleanup failure is logged, never layered on top of the original error.
	if !errors.Is(err, domain.ErrPersistFailed) {
		t.Fatalf("expected ErrPersistFailed, got %v", err)
	}
}
