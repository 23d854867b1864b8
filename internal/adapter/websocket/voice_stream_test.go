package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/mocks"
)

type frame struct {
	messageType int
	data        []byte
}

// fakeConn replays its frames, then blocks reading until it hangs up. It hangs
// up on its own after the given number of result or error messages.
type fakeConn struct {
	mu      sync.Mutex
	in      []frame
	written []map[string]interface{}
	replies int
	hangup  chan struct{}
	once    sync.Once
}

func newFakeConn(replies int, frames ...frame) *fakeConn {
	return &fakeConn{in: frames, replies: replies, hangup: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	f.mu.Lock()
	if len(f.in) > 0 {
		next := f.in[0]
		f.in = f.in[1:]
		f.mu.Unlock()
		return next.messageType, next.data, nil
	}
	f.mu.Unlock()

	<-f.hangup
	return 0, nil, io.EOF
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	f.written = append(f.written, decoded)

	if decoded["type"] == MessageResult || decoded["type"] == MessageError {
		f.replies--
		if f.replies == 0 {
			f.hangUp()
		}
	}
	return nil
}

func (f *fakeConn) hangUp() {
	f.once.Do(func() { close(f.hangup) })
}

func newHandler(pipeline *mocks.MockVoicePipeline, guests *mocks.MockGuestService, events *mocks.MockEventPublisher) *VoiceStreamHandler {
	return NewVoiceStreamHandler(pipeline, guests, &mocks.MockGuestTokenService{}, events,
		[]string{"audio/webm", "audio/wav"}, 1024, zap.NewNop())
}

func TestServe_StreamsStagesThenResult(t *testing.T) {
	pipeline := &mocks.MockVoicePipeline{
		ProcessFunc: func(ctx context.Context, audio []byte, mimeType string, progress func(domain.StageEvent)) (*domain.PipelineResult, error) {
			assert.Equal(t, "audio/wav", mimeType)
			progress(domain.StageEvent{Stage: domain.StageTranscription, Status: domain.StageStarted})
			progress(domain.StageEvent{Stage: domain.StageTranscription, Status: domain.StageCompleted})
			progress(domain.StageEvent{Stage: domain.StageTranslation, Status: domain.StageSkipped})
			return &domain.PipelineResult{
				Intent:           domain.WebsiteIntent{BusinessType: "bakery"},
				DetectedLanguage: "en",
			}, nil
		},
	}
	events := &mocks.MockEventPublisher{}
	h := newHandler(pipeline, &mocks.MockGuestService{}, events)

	conn := newFakeConn(1,
		frame{websocket.TextMessage, []byte("ping")},
		frame{websocket.BinaryMessage, []byte("audio")},
	)

	h.Serve(context.Background(), conn, "u1", "w1", "audio/wav")

	require.Len(t, conn.written, 4)
	assert.Equal(t, "stage", conn.written[0]["type"])
	assert.Equal(t, "transcription", conn.written[0]["stage"])
	assert.Equal(t, "started", conn.written[0]["status"])
	assert.Equal(t, "skipped", conn.written[2]["status"])
	assert.Equal(t, "result", conn.written[3]["type"])
	assert.Equal(t, true, conn.written[3]["success"])

	assert.Equal(t, []string{domain.SubjectVoiceProcessed}, events.Subjects())
}

func TestServe_FailureMessage(t *testing.T) {
	pipeline := &mocks.MockVoicePipeline{
		ProcessFunc: func(ctx context.Context, audio []byte, mimeType string, progress func(domain.StageEvent)) (*domain.PipelineResult, error) {
			progress(domain.StageEvent{Stage: domain.StageTranscription, Status: domain.StageFailed})
			return nil, domain.NewExternalServiceError(domain.ServiceDeepgram, domain.CodeNoSpeech, "No speech detected", nil)
		},
	}
	events := &mocks.MockEventPublisher{}
	h := newHandler(pipeline, &mocks.MockGuestService{}, events)

	conn := newFakeConn(1, frame{websocket.BinaryMessage, []byte("audio")})
	h.Serve(context.Background(), conn, "u1", "w1", "audio/webm")

	require.Len(t, conn.written, 2)
	last := conn.written[1]
	assert.Equal(t, "error", last["type"])
	assert.Equal(t, false, last["success"])
	assert.Equal(t, "Deepgram", last["sourceService"])
	assert.Equal(t, "no_speech", last["code"])
	assert.Empty(t, events.Subjects())
}

func TestServe_QueuedRecordingsRunInOrder(t *testing.T) {
	var seen []string
	pipeline := &mocks.MockVoicePipeline{
		ProcessFunc: func(ctx context.Context, audio []byte, mimeType string, progress func(domain.StageEvent)) (*domain.PipelineResult, error) {
			seen = append(seen, string(audio))
			return &domain.PipelineResult{Intent: domain.WebsiteIntent{BusinessType: "bakery"}}, nil
		},
	}
	h := newHandler(pipeline, &mocks.MockGuestService{}, &mocks.MockEventPublisher{})

	conn := newFakeConn(2,
		frame{websocket.BinaryMessage, []byte("first")},
		frame{websocket.BinaryMessage, []byte("second")},
	)
	h.Serve(context.Background(), conn, "u1", "w1", "audio/webm")

	assert.Equal(t, []string{"first", "second"}, seen)
	require.Len(t, conn.written, 2)
}

func TestServe_DisconnectCancelsRun(t *testing.T) {
	conn := newFakeConn(-1, frame{websocket.BinaryMessage, []byte("audio")})
	var runErr error
	pipeline := &mocks.MockVoicePipeline{
		ProcessFunc: func(ctx context.Context, audio []byte, mimeType string, progress func(domain.StageEvent)) (*domain.PipelineResult, error) {
			conn.hangUp()
			select {
			case <-ctx.Done():
				runErr = ctx.Err()
				return nil, runErr
			case <-time.After(2 * time.Second):
				return nil, errors.New("run was not cancelled")
			}
		},
	}
	events := &mocks.MockEventPublisher{}
	h := newHandler(pipeline, &mocks.MockGuestService{}, events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Serve(context.Background(), conn, "u1", "w1", "audio/webm")
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after the client hung up")
	}
	assert.ErrorIs(t, runErr, context.Canceled)
	assert.Empty(t, events.Subjects())
}

func TestUpgrade_Rejections(t *testing.T) {
	guests := &mocks.MockGuestService{
		IsValidGuestFunc: func(ctx context.Context, userID string) bool { return userID == "u1" },
	}
	tokens := &mocks.MockGuestTokenService{
		ValidateGuestTokenFunc: func(token string) (string, error) {
			if token == "good" {
				return "u1", nil
			}
			return "", errors.New("invalid")
		},
	}
	h := NewVoiceStreamHandler(&mocks.MockVoicePipeline{}, guests, tokens, &mocks.MockEventPublisher{},
		[]string{"audio/webm"}, 1024, zap.NewNop())

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
	app.Get("/ws/voice", h.Upgrade, func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	tests := []struct {
		name    string
		query   string
		upgrade bool
		status  int
	}{
		{"not an upgrade", "?userId=u1&websiteId=w1", false, http.StatusUpgradeRequired},
		{"missing ids", "?userId=u1", true, http.StatusBadRequest},
		{"bad token", "?userId=u1&websiteId=w1&token=bad", true, http.StatusUnauthorized},
		{"unknown guest", "?userId=u2&websiteId=w1", true, http.StatusForbidden},
		{"bad mime", "?userId=u1&websiteId=w1&mimeType=image/png", true, http.StatusBadRequest},
		{"accepted", "?userId=u1&websiteId=w1&token=good&mimeType=audio%2Fwebm%3Bcodecs%3Dopus", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws/voice"+tt.query, nil)
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
