package ports

import (
	"context"

	"github.com/seu-repo/vox-site/internal/domain"
)

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (*domain.TranscriptionResult, error)
}

// Translator renders text in English. It must not call its provider when the
// detected language is already English.
type Translator interface {
	Translate(ctx context.Context, text, detectedLanguage string) (*domain.TranslationResult, error)
}

// IntentExtractor turns an English business description into a WebsiteIntent.
type IntentExtractor interface {
	ExtractIntent(ctx context.Context, englishText string) (*domain.WebsiteIntent, error)
}

type VoicePipeline interface {
	Process(ctx context.Context, audio []byte, mimeType string) (*domain.PipelineResult, error)
	ProcessWithProgress(ctx context.Context, audio []byte, mimeType string, progress func(domain.StageEvent)) (*domain.PipelineResult, error)
}

type GuestService interface {
	Create(ctx context.Context) (*domain.GuestIdentity, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	IsValidGuest(ctx context.Context, userID string) bool
}

type WebsiteService interface {
	Save(ctx context.Context, req domain.SaveWebsiteRequest) (*domain.WebsiteResponse, error)
	GetBySlug(ctx context.Context, slug string) (*domain.WebsiteResponse, error)
	ListByUser(ctx context.Context, userID string) ([]domain.WebsiteResponse, error)
}

// GuestTokenService issues and checks the signed token handed to a new guest.
type GuestTokenService interface {
	GenerateGuestToken(userID string) (string, error)
	ValidateGuestToken(token string) (string, error)
}

// EventPublisher publishes domain events; failures are logged, never surfaced.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event interface{})
}
