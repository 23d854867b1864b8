package mocks

import (
	"context"

	"github.com/seu-repo/vox-site/internal/domain"
)

// MockTranscriber is a mock implementation of Transcriber interface
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audio []byte, mimeType string) (*domain.TranscriptionResult, error)
	Calls          int
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (*domain.TranscriptionResult, error) {
	m.Calls++
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, mimeType)
	}
	return &domain.TranscriptionResult{Text: "", DetectedLanguage: domain.EnglishLanguage}, nil
}

// MockTranslator is a mock implementation of Translator interface
type MockTranslator struct {
	TranslateFunc func(ctx context.Context, text, detectedLanguage string) (*domain.TranslationResult, error)
	Calls         int
}

func (m *MockTranslator) Translate(ctx context.Context, text, detectedLanguage string) (*domain.TranslationResult, error) {
	m.Calls++
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text, detectedLanguage)
	}
	return &domain.TranslationResult{TranslatedText: text, OriginalLanguage: detectedLanguage}, nil
}

// MockIntentExtractor is a mock implementation of IntentExtractor interface
type MockIntentExtractor struct {
	ExtractIntentFunc func(ctx context.Context, englishText string) (*domain.WebsiteIntent, error)
	Calls             int
	LastInput         string
}

func (m *MockIntentExtractor) ExtractIntent(ctx context.Context, englishText string) (*domain.WebsiteIntent, error) {
	m.Calls++
	m.LastInput = englishText
	if m.ExtractIntentFunc != nil {
		return m.ExtractIntentFunc(ctx, englishText)
	}
	return &domain.WebsiteIntent{Sections: []string{}}, nil
}

// MockVoicePipeline is a mock implementation of VoicePipeline interface
type MockVoicePipeline struct {
	ProcessFunc func(ctx context.Context, audio []byte, mimeType string, progress func(domain.StageEvent)) (*domain.PipelineResult, error)
}

func (m *MockVoicePipeline) Process(ctx context.Context, audio []byte, mimeType string) (*domain.PipelineResult, error) {
	return m.ProcessWithProgress(ctx, audio, mimeType, nil)
}

func (m *MockVoicePipeline) ProcessWithProgress(ctx context.Context, audio []byte, mimeType string, progress func(domain.StageEvent)) (*domain.PipelineResult, error) {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, audio, mimeType, progress)
	}
	return &domain.PipelineResult{}, nil
}

// MockGuestService is a mock implementation of GuestService interface
type MockGuestService struct {
	CreateFunc       func(ctx context.Context) (*domain.GuestIdentity, error)
	GetByIDFunc      func(ctx context.Context, userID string) (*domain.User, error)
	IsValidGuestFunc func(ctx context.Context, userID string) bool
}

func (m *MockGuestService) Create(ctx context.Context) (*domain.GuestIdentity, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx)
	}
	return &domain.GuestIdentity{}, nil
}

func (m *MockGuestService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockGuestService) IsValidGuest(ctx context.Context, userID string) bool {
	if m.IsValidGuestFunc != nil {
		return m.IsValidGuestFunc(ctx, userID)
	}
	return true
}

// MockWebsiteService is a mock implementation of WebsiteService interface
type MockWebsiteService struct {
	SaveFunc       func(ctx context.Context, req domain.SaveWebsiteRequest) (*domain.WebsiteResponse, error)
	GetBySlugFunc  func(ctx context.Context, slug string) (*domain.WebsiteResponse, error)
	ListByUserFunc func(ctx context.Context, userID string) ([]domain.WebsiteResponse, error)
}

func (m *MockWebsiteService) Save(ctx context.Context, req domain.SaveWebsiteRequest) (*domain.WebsiteResponse, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, req)
	}
	return &domain.WebsiteResponse{}, nil
}

func (m *MockWebsiteService) GetBySlug(ctx context.Context, slug string) (*domain.WebsiteResponse, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *MockWebsiteService) ListByUser(ctx context.Context, userID string) ([]domain.WebsiteResponse, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []domain.WebsiteResponse{}, nil
}

// MockGuestTokenService is a mock implementation of GuestTokenService interface
type MockGuestTokenService struct {
	GenerateGuestTokenFunc func(userID string) (string, error)
	ValidateGuestTokenFunc func(token string) (string, error)
}

func (m *MockGuestTokenService) GenerateGuestToken(userID string) (string, error) {
	if m.GenerateGuestTokenFunc != nil {
		return m.GenerateGuestTokenFunc(userID)
	}
	return "token-" + userID, nil
}

func (m *MockGuestTokenService) ValidateGuestToken(token string) (string, error) {
	if m.ValidateGuestTokenFunc != nil {
		return m.ValidateGuestTokenFunc(token)
	}
	return "", nil
}
