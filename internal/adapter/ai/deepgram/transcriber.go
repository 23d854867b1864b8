package deepgram

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/infrastructure/circuitbreaker"
)

const (
	defaultMimeType = "audio/webm"
	excerptLength   = 50
	noSpeechMessage = "No speech detected in audio. Please try speaking more clearly."
)

// SpeechAPI is the provider call the Transcriber depends on. *Client implements it.
type SpeechAPI interface {
	Listen(ctx context.Context, audio []byte, mimeType string, opts ListenOptions) (*Response, error)
}

// Transcriber implements ports.Transcriber on top of Deepgram.
type Transcriber struct {
	api   SpeechAPI
	model string
	log   *zap.Logger
}

func NewTranscriber(api SpeechAPI, model string, log *zap.Logger) *Transcriber {
	if model == "" {
		model = defaultModel
	}
	return &Transcriber{
		api:   api,
		model: model,
		log:   log,
	}
}

// Transcribe sends one recording to Deepgram with language detection on and
// diarization off. There is no retry: any provider failure is returned as an
// external service error.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (*domain.TranscriptionResult, error) {
	if len(audio) == 0 {
		return nil, domain.NewValidationError("audio must not be empty")
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	resp, err := t.api.Listen(ctx, audio, mimeType, ListenOptions{
		Model:          t.model,
		SmartFormat:    true,
		DetectLanguage: true,
		Punctuate:      true,
		Diarize:        false,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	if resp == nil || resp.Results == nil || len(resp.Results.Channels) == 0 ||
		len(resp.Results.Channels[0].Alternatives) == 0 {
		return nil, domain.NewExternalServiceError(domain.ServiceDeepgram, domain.CodeEmptyResponse,
			"Transcription returned no results", nil)
	}

	channel := resp.Results.Channels[0]
	best := channel.Alternatives[0]

	if strings.TrimSpace(best.Transcript) == "" {
		return nil, domain.NewExternalServiceError(domain.ServiceDeepgram, domain.CodeNoSpeech, noSpeechMessage, nil)
	}

	language := channel.DetectedLanguage
	if language == "" {
		language = domain.EnglishLanguage
	}

	t.log.Info("Audio transcribed",
		zap.String("excerpt", excerpt(best.Transcript)),
		zap.String("language", language),
		zap.Float64("confidence", best.Confidence),
	)

	return &domain.TranscriptionResult{
		Text:             best.Transcript,
		DetectedLanguage: language,
		Confidence:       clamp(best.Confidence),
	}, nil
}

func wrapError(err error) error {
	if circuitbreaker.IsCircuitOpen(err) {
		return domain.NewExternalServiceError(domain.ServiceDeepgram, domain.CodeCircuitOpen,
			"Transcription service temporarily unavailable", err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return domain.NewExternalServiceError(domain.ServiceDeepgram, domain.CodeProviderError, apiErr.Error(), err)
	}

	return domain.NewExternalServiceError(domain.ServiceDeepgram, domain.CodeProviderError, err.Error(), err)
}

func excerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}
	return string([]rune(text)[:excerptLength]) + "..."
}

func clamp(confidence float64) float64 {
	switch {
	case confidence < 0:
		return 0
	case confidence > 1:
		return 1
	default:
		return confidence
	}
}
