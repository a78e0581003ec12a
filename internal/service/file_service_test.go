package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/events"
	"github.com/spec-kit/fieldops-service/internal/policy"
)

type fileFixture struct {
	service    *FileService
	files      *fakeFileRepo
	dispatcher *recordingDispatcher
}

func newFileFixture() fileFixture {
	files := newFakeFileRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewFileService(files, policy.NewEvaluator(policy.DefaultCatalog()), dispatcher)
	return fileFixture{service: svc, files: files, dispatcher: dispatcher}
}

func TestAddFileStartsHidden(t *testing.T) {
	fix := newFileFixture()

	file, err := fix.service.AddFile(context.Background(), staffActor, FileUploadInput{
		WorkOrderID: "wo-1",
		FileName:    "quote.pdf",
		StorageKey:  "s3://bucket/quote.pdf",
	})
	require.NoError(t, err)
	assert.False(t, file.VisibleToClient)
	assert.Equal(t, "staff-1", file.UploadedByID)
	assert.NotEmpty(t, file.ID)
}

func TestAddFileGates(t *testing.T) {
	fix := newFileFixture()
	ctx := context.Background()

	_, err := fix.service.AddFile(ctx, techActor, FileUploadInput{WorkOrderID: "wo-1", FileName: "a", StorageKey: "k"})
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	_, err = fix.service.AddFile(ctx, staffActor, FileUploadInput{WorkOrderID: "wo-1", FileName: " ", StorageKey: "k"})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestToggleVisibilityPublishesOnChange(t *testing.T) {
	fix := newFileFixture()
	fix.files.seed(domain.FileRecord{ID: "f1", WorkOrderID: "wo-1", VisibleToClient: false})
	ctx := context.Background()

	updated, err := fix.service.ToggleVisibility(ctx, staffActor, "f1", true)
	require.NoError(t, err)
	assert.True(t, updated.VisibleToClient)

	changed := fix.dispatcher.byType(events.EventFileVisibilityChanged)
	require.Len(t, changed, 1)
	payload, ok := changed[0].Payload.(events.FileVisibilityChangedPayload)
	require.True(t, ok)
	assert.True(t, payload.VisibleToClient)

	stored, err := fix.files.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.True(t, stored.VisibleToClient)
}

func TestToggleVisibilityIdempotent(t *testing.T) {
	fix := newFileFixture()
	fix.files.seed(domain.FileRecord{ID: "f1", WorkOrderID: "wo-1", VisibleToClient: true})

	file, err := fix.service.ToggleVisibility(context.Background(), staffActor, "f1", true)
	require.NoError(t, err)
	assert.True(t, file.VisibleToClient)
	assert.Empty(t, fix.dispatcher.published)
}

func TestToggleVisibilityForbidden(t *testing.T) {
	fix := newFileFixture()
	fix.files.seed(domain.FileRecord{ID: "f1", WorkOrderID: "wo-1"})

	_, err := fix.service.ToggleVisibility(context.Background(), techActor, "f1", true)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
	assert.Empty(t, fix.dispatcher.published)
}

func TestListForWorkOrderRequiresViewGrant(t *testing.T) {
	fix := newFileFixture()
	fix.files.seed(domain.FileRecord{ID: "f1", WorkOrderID: "wo-1", VisibleToClient: false})
	ctx := context.Background()

	files, err := fix.service.ListForWorkOrder(ctx, techActor, "wo-1")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	contact := domain.Actor{ID: "c-1", Role: domain.RoleClientContact, Active: true}
	_, err = fix.service.ListForWorkOrder(ctx, contact, "wo-1")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestListForClientProjection(t *testing.T) {
	fix := newFileFixture()
	fix.files.seed(domain.FileRecord{ID: "f1", WorkOrderID: "wo-1", VisibleToClient: true})
	fix.files.seed(domain.FileRecord{ID: "f2", WorkOrderID: "wo-1", VisibleToClient: false})

	files, err := fix.service.ListForClient(context.Background(), "wo-1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "f1", files[0].ID)
}
