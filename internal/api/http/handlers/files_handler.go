package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldops-service/internal/api/dto"
	"github.com/spec-kit/fieldops-service/internal/auth"
	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/service"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// FilesHandler manages file metadata endpoints.
type FilesHandler struct {
	service *service.FileService
}

// NewFilesHandler constructs handler.
func NewFilesHandler(fileService *service.FileService) *FilesHandler {
	return &FilesHandler{service: fileService}
}

// Add POST /work-orders/:id/files.
func (h *FilesHandler) Add(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddFileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	file, err := h.service.AddFile(c.Context(), *actor, service.FileUploadInput{
		WorkOrderID: c.Params("id"),
		FileName:    req.FileName,
		Category:    req.Category,
		StorageKey:  req.StorageKey,
		MimeType:    req.MimeType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fileResponse(file)})
}

// List GET /work-orders/:id/files.
func (h *FilesHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	files, err := h.service.ListForWorkOrder(c.Context(), *actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.FileResponse, 0, len(files))
	for i := range files {
		items = append(items, fileResponse(&files[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ToggleVisibility PATCH /files/:id/visibility.
func (h *FilesHandler) ToggleVisibility(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ToggleVisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	file, err := h.service.ToggleVisibility(c.Context(), *actor, c.Params("id"), req.Visible)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fileResponse(file)})
}

func fileResponse(file *domain.FileRecord) dto.FileResponse {
	return dto.FileResponse{
		ID:              file.ID,
		WorkOrderID:     file.WorkOrderID,
		FileName:        file.FileName,
		Category:        file.Category,
		MimeType:        file.MimeType,
		SizeBytes:       file.SizeBytes,
		VisibleToClient: file.VisibleToClient,
		CreatedAt:       file.CreatedAt,
	}
}
