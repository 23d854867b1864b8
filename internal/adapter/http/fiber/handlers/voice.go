package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/ports"
)

type VoiceHandler struct {
	pipeline ports.VoicePipeline
	guests   ports.GuestService
	events   ports.EventPublisher
	upload   *AudioUpload
	log      *zap.Logger
}

func NewVoiceHandler(
	pipeline ports.VoicePipeline,
	guests ports.GuestService,
	events ports.EventPublisher,
	upload *AudioUpload,
	log *zap.Logger,
) *VoiceHandler {
	return &VoiceHandler{
		pipeline: pipeline,
		guests:   guests,
		events:   events,
		upload:   upload,
		log:      log,
	}
}

// Process handles POST /api/voice/process: a multipart form with the audio
// file and the userId/websiteId of the guest recording it.
func (h *VoiceHandler) Process(c *fiber.Ctx) error {
	audio, err := h.upload.Read(c)
	if err != nil {
		return err
	}

	userID := c.FormValue("userId")
	websiteID := c.FormValue("websiteId")
	if userID == "" || websiteID == "" {
		return domain.NewValidationError("userId and websiteId are required")
	}

	if tokenUser := middleware.GuestID(c); tokenUser != "" && tokenUser != userID {
		return domain.NewForbiddenError("Token does not belong to this user")
	}

	ctx := c.UserContext()
	if !h.guests.IsValidGuest(ctx, userID) {
		return domain.NewForbiddenError("User not found or not a valid guest user")
	}

	if audio == nil {
		return domain.NewValidationError("Please upload an audio file")
	}

	h.log.Info("Processing voice upload",
		zap.String("user_id", userID),
		zap.String("mime_type", audio.MimeType),
		zap.Int("size", len(audio.Data)),
	)

	result, err := h.pipeline.Process(ctx, audio.Data, audio.MimeType)
	if err != nil {
		return err
	}

	h.events.Publish(ctx, domain.SubjectVoiceProcessed, domain.VoiceProcessedEvent{
		UserID:           userID,
		WebsiteID:        websiteID,
		BusinessType:     result.Intent.BusinessType,
		DetectedLanguage: result.DetectedLanguage,
		ProcessingSteps:  result.ProcessingSteps,
		LowConfidence:    result.LowConfidence,
		OccurredAt:       time.Now().UTC(),
	})

	return respond(c, fiber.StatusOK, result)
}
