// Package websocket streams voice pipeline progress to the browser.
package websocket

import (
	"context"
	"mime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/ports"
)

const (
	localUserID    = "ws_user_id"
	localWebsiteID = "ws_website_id"
	localMimeType  = "ws_mime_type"

	defaultMimeType = "audio/webm"

	maxPendingFrames = 4
)

// Message types written to the client.
const (
	MessageStage  = "stage"
	MessageResult = "result"
	MessageError  = "error"
)

// Conn is the part of *websocket.Conn the stream handler needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
}

type VoiceStreamHandler struct {
	pipeline ports.VoicePipeline
	guests   ports.GuestService
	tokens   ports.GuestTokenService
	events   ports.EventPublisher
	allowed  map[string]bool
	maxSize  int64
	logger   *zap.Logger
}

func NewVoiceStreamHandler(
	pipeline ports.VoicePipeline,
	guests ports.GuestService,
	tokens ports.GuestTokenService,
	events ports.EventPublisher,
	allowedMimeTypes []string,
	maxSize int64,
	logger *zap.Logger,
) *VoiceStreamHandler {
	allowed := make(map[string]bool, len(allowedMimeTypes))
	for _, m := range allowedMimeTypes {
		allowed[m] = true
	}
	return &VoiceStreamHandler{
		pipeline: pipeline,
		guests:   guests,
		tokens:   tokens,
		events:   events,
		allowed:  allowed,
		maxSize:  maxSize,
		logger:   logger,
	}
}

// Upgrade authorizes the handshake. It expects userId and websiteId query
// parameters, an optional token and an optional mimeType.
func (h *VoiceStreamHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID := c.Query("userId")
	websiteID := c.Query("websiteId")
	if userID == "" || websiteID == "" {
		return domain.NewValidationError("userId and websiteId are required")
	}

	if token := c.Query("token"); token != "" {
		tokenUser, err := h.tokens.ValidateGuestToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}
		if tokenUser != userID {
			return domain.NewForbiddenError("Token does not belong to this user")
		}
	}

	if !h.guests.IsValidGuest(c.UserContext(), userID) {
		return domain.NewForbiddenError("User not found or not a valid guest user")
	}

	mimeType := defaultMimeType
	if raw := c.Query("mimeType"); raw != "" {
		if mt, _, err := mime.ParseMediaType(raw); err == nil {
			mimeType = mt
		} else {
			mimeType = raw
		}
	}
	if len(h.allowed) > 0 && !h.allowed[mimeType] {
		return domain.NewValidationError("Invalid file type: " + mimeType)
	}

	c.Locals(localUserID, userID)
	c.Locals(localWebsiteID, websiteID)
	c.Locals(localMimeType, mimeType)
	return c.Next()
}

// Handler returns the fiber handler serving upgraded connections.
func (h *VoiceStreamHandler) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if h.maxSize > 0 {
			c.SetReadLimit(h.maxSize)
		}
		userID, _ := c.Locals(localUserID).(string)
		websiteID, _ := c.Locals(localWebsiteID).(string)
		mimeType, _ := c.Locals(localMimeType).(string)

		h.Serve(context.Background(), c, userID, websiteID, mimeType)
	})
}

// Serve runs one pipeline per binary frame until the client disconnects.
// Text frames are ignored. A reader keeps draining the connection while a run
// is in flight so a disconnect cancels the provider call in progress; up to
// maxPendingFrames recordings queue behind the running one.
func (h *VoiceStreamHandler) Serve(ctx context.Context, c Conn, userID, websiteID, mimeType string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan []byte, maxPendingFrames)
	go func() {
		defer close(frames)
		defer cancel()
		for {
			messageType, audio, err := c.ReadMessage()
			if err != nil {
				h.logger.Debug("Voice stream closed", zap.String("user_id", userID), zap.Error(err))
				return
			}
			if messageType != websocket.BinaryMessage {
				continue
			}
			select {
			case frames <- audio:
			case <-ctx.Done():
				return
			}
		}
	}()

	for audio := range frames {
		if ctx.Err() != nil {
			return
		}
		if err := h.process(ctx, c, audio, userID, websiteID, mimeType); err != nil {
			h.logger.Warn("Failed to write to voice stream", zap.String("user_id", userID), zap.Error(err))
			return
		}
	}
}

func (h *VoiceStreamHandler) process(ctx context.Context, c Conn, audio []byte, userID, websiteID, mimeType string) error {
	var writeErr error
	progress := func(ev domain.StageEvent) {
		if writeErr != nil {
			return
		}
		writeErr = c.WriteJSON(fiber.Map{
			"type":   MessageStage,
			"stage":  ev.Stage,
			"status": ev.Status,
		})
	}

	result, err := h.pipeline.ProcessWithProgress(ctx, audio, mimeType, progress)
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		h.logger.Info("Voice stream run failed", zap.String("user_id", userID), zap.Error(err))
		body := middleware.ErrorBody(err)
		body["type"] = MessageError
		return c.WriteJSON(body)
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

	return c.WriteJSON(fiber.Map{
		"type":    MessageResult,
		"success": true,
		"data":    result,
	})
}
