package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/events"
	"github.com/spec-kit/fieldops-service/internal/policy"
	"github.com/spec-kit/fieldops-service/internal/repository"
	"github.com/spec-kit/fieldops-service/internal/visibility"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// PermFilesView gates internal file listings.
const PermFilesView policy.PermissionKey = "files:view"

// FileService coordinates file metadata and client visibility. The actual
// blobs live in the external storage collaborator.
type FileService struct {
	files      repository.FileRepository
	eval       *policy.Evaluator
	dispatcher events.Dispatcher
}

// FileUploadInput describes uploaded file metadata.
type FileUploadInput struct {
	WorkOrderID string
	FileName    string
	Category    string
	StorageKey  string
	MimeType    string
	SizeBytes   int64
}

// NewFileService constructs the service.
func NewFileService(files repository.FileRepository, eval *policy.Evaluator, dispatcher events.Dispatcher) *FileService {
	return &FileService{files: files, eval: eval, dispatcher: dispatcher}
}

// AddFile records uploaded file metadata. New files start hidden from the
// client; exposure is a separate, audited toggle.
func (s *FileService) AddFile(ctx context.Context, actor domain.Actor, input FileUploadInput) (*domain.FileRecord, error) {
	if !s.eval.Allows(actor, visibility.PermFilesManage) {
		return nil, apperrors.NewForbidden("not allowed to manage files")
	}
	if strings.TrimSpace(input.FileName) == "" || strings.TrimSpace(input.StorageKey) == "" {
		return nil, apperrors.NewValidationError("file_name and storage_key required", nil)
	}
	file := &domain.FileRecord{
		WorkOrderID:     input.WorkOrderID,
		FileName:        strings.TrimSpace(input.FileName),
		Category:        input.Category,
		StorageKey:      input.StorageKey,
		MimeType:        input.MimeType,
		SizeBytes:       input.SizeBytes,
		VisibleToClient: false,
		UploadedByID:    actor.ID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, apperrors.MapError(err)
	}
	return file, nil
}

// ListForWorkOrder returns the raw file list for internal viewers.
func (s *FileService) ListForWorkOrder(ctx context.Context, actor domain.Actor, workOrderID string) ([]domain.FileRecord, error) {
	if !s.eval.Allows(actor, PermFilesView) {
		return nil, apperrors.NewForbidden("not allowed to view files")
	}
	files, err := s.files.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return files, nil
}

// ListForClient returns only the client-visible projection. This is the sole
// read path for client-facing file lists.
func (s *FileService) ListForClient(ctx context.Context, workOrderID string) ([]domain.FileRecord, error) {
	files, err := s.files.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return visibility.FilterForClient(files), nil
}

// ToggleVisibility applies an authorized client-visibility toggle. Toggling
// to the value the file already holds is a no-op and emits no event.
func (s *FileService) ToggleVisibility(ctx context.Context, actor domain.Actor, fileID string, makeVisible bool) (*domain.FileRecord, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	updated, changed, err := visibility.SetClientVisibility(s.eval, actor, *file, makeVisible)
	if err != nil {
		var forbidden *visibility.ForbiddenError
		if errors.As(err, &forbidden) {
			return nil, apperrors.NewForbidden("not allowed to manage file visibility")
		}
		return nil, apperrors.MapError(err)
	}
	if !changed {
		return file, nil
	}

	if err := s.files.UpdateVisibility(ctx, fileID, updated.VisibleToClient); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventFileVisibilityChanged,
			WorkOrderID: updated.WorkOrderID,
			Actor:       eventActor(actor),
			Timestamp:   time.Now(),
			Payload: events.FileVisibilityChangedPayload{
				FileID:          updated.ID,
				VisibleToClient: updated.VisibleToClient,
			},
		})
	}
	return &updated, nil
}
