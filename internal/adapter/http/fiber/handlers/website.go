package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/ports"
)

type WebsiteHandler struct {
	service ports.WebsiteService
	log     *zap.Logger
}

func NewWebsiteHandler(service ports.WebsiteService, log *zap.Logger) *WebsiteHandler {
	return &WebsiteHandler{
		service: service,
		log:     log,
	}
}

type SaveWebsiteRequest struct {
	UserID    string          `json:"userId"`
	WebsiteID string          `json:"websiteId"`
	Title     string          `json:"title"`
	Layout    domain.JSONBlob `json:"layout"`
	Content   domain.JSONBlob `json:"content"`
}

// Save handles POST /api/website/save.
func (h *WebsiteHandler) Save(c *fiber.Ctx) error {
	var req SaveWebsiteRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}

	if tokenUser := middleware.GuestID(c); tokenUser != "" && tokenUser != req.UserID {
		return domain.NewForbiddenError("Token does not belong to this user")
	}

	website, err := h.service.Save(c.UserContext(), domain.SaveWebsiteRequest{
		UserID:    req.UserID,
		WebsiteID: req.WebsiteID,
		Title:     req.Title,
		Layout:    req.Layout,
		Content:   req.Content,
	})
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, website)
}

// GetBySlug handles GET /api/website/:slug.
func (h *WebsiteHandler) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return domain.NewValidationError("Slug is required")
	}

	website, err := h.service.GetBySlug(c.UserContext(), slug)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, website)
}

// ListByUser handles GET /api/website/user/:userId.
func (h *WebsiteHandler) ListByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return domain.NewValidationError("User ID is required")
	}

	websites, err := h.service.ListByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    websites,
		"count":   len(websites),
	})
}
