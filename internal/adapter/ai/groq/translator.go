package groq

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/domain"
)

// Translator implements ports.Translator.
type Translator struct {
	chat ChatCompleter
	log  *zap.Logger
}

func NewTranslator(chat ChatCompleter, log *zap.Logger) *Translator {
	return &Translator{chat: chat, log: log}
}

// Translate returns text unchanged without calling the provider when the
// detected language is English.
func (t *Translator) Translate(ctx context.Context, text, detectedLanguage string) (*domain.TranslationResult, error) {
	if detectedLanguage == domain.EnglishLanguage {
		return &domain.TranslationResult{
			TranslatedText:   text,
			OriginalLanguage: detectedLanguage,
			WasTranslated:    false,
		}, nil
	}

	reply, err := t.chat.Complete(ctx, translationPrompt, text)
	if err != nil {
		return nil, wrapError(err, "Translation failed - empty response")
	}

	translated := strings.TrimSpace(reply)
	if translated == "" {
		return nil, domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeEmptyResponse,
			"Translation failed - empty response", nil)
	}

	t.log.Info("Transcript translated",
		zap.String("from", detectedLanguage),
		zap.Int("chars", len(translated)),
	)

	return &domain.TranslationResult{
		TranslatedText:   translated,
		OriginalLanguage: detectedLanguage,
		WasTranslated:    true,
	}, nil
}
