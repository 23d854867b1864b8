package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/ports"
)

type GuestHandler struct {
	service ports.GuestService
	log     *zap.Logger
}

func NewGuestHandler(service ports.GuestService, log *zap.Logger) *GuestHandler {
	return &GuestHandler{
		service: service,
		log:     log,
	}
}

// Create handles POST /api/guest/create.
func (h *GuestHandler) Create(c *fiber.Ctx) error {
	identity, err := h.service.Create(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, identity)
}
