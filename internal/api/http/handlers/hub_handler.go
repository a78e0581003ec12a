package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldops-service/internal/api/dto"
	"github.com/spec-kit/fieldops-service/internal/auth"
	"github.com/spec-kit/fieldops-service/internal/domain"
	"github.com/spec-kit/fieldops-service/internal/service"
	apperrors "github.com/spec-kit/fieldops-service/pkg/util"
)

// HubHandler serves the client hub surface for a work order.
type HubHandler struct {
	service *service.HubService
}

// NewHubHandler constructs handler.
func NewHubHandler(hubService *service.HubService) *HubHandler {
	return &HubHandler{service: hubService}
}

// Access GET /work-orders/:id/hub/access.
func (h *HubHandler) Access(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	decision, err := h.service.Access(c.Context(), *actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.HubAccessResponse{Decision: string(decision)}})
}

// View GET /work-orders/:id/hub.
func (h *HubHandler) View(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	view, err := h.service.View(c.Context(), *actor, c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.HubViewResponse{Decision: string(view.Decision)}
	for i := range view.Messages {
		resp.Messages = append(resp.Messages, hubMessageResponse(&view.Messages[i]))
	}
	for i := range view.Files {
		resp.Files = append(resp.Files, fileResponse(&view.Files[i]))
	}
	for _, contact := range view.Contacts {
		resp.Contacts = append(resp.Contacts, dto.ContactResponse{
			ID:    contact.ID,
			Name:  contact.Name,
			Email: contact.Email,
			Phone: contact.Phone,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// PostMessage POST /work-orders/:id/hub/messages.
func (h *HubHandler) PostMessage(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.service.PostMessage(c.Context(), *actor, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": hubMessageResponse(msg)})
}

// AddContact POST /work-orders/:id/hub/contacts.
func (h *HubHandler) AddContact(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ContactGrantRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.ContactID) == "" {
		return apperrors.NewValidationError("contact_id required", nil)
	}
	if err := h.service.AddContactGrant(c.Context(), *actor, c.Params("id"), req.ContactID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RemoveContact DELETE /work-orders/:id/hub/contacts/:contactId.
func (h *HubHandler) RemoveContact(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.RemoveContactGrant(c.Context(), *actor, c.Params("id"), c.Params("contactId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func hubMessageResponse(msg *domain.HubMessage) dto.HubMessageResponse {
	return dto.HubMessageResponse{
		ID:         msg.ID,
		AuthorID:   msg.AuthorID,
		AuthorName: msg.AuthorName,
		ClientName: msg.ClientName,
		Body:       msg.Body,
		CreatedAt:  msg.CreatedAt,
	}
}
