package groq

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/domain"
)

const (
	rejectionMultipleBusinesses = "multiple_businesses"
	defaultRejectionMessage     = "Multiple businesses detected. Please describe one business at a time."
)

// rejection is the object the model returns instead of an intent.
type rejection struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Extractor implements ports.IntentExtractor.
type Extractor struct {
	chat ChatCompleter
	log  *zap.Logger
}

func NewExtractor(chat ChatCompleter, log *zap.Logger) *Extractor {
	return &Extractor{chat: chat, log: log}
}

// ExtractIntent asks the model for a WebsiteIntent. The reply must be exactly
// one JSON object; anything else is invalid_json.
func (e *Extractor) ExtractIntent(ctx context.Context, englishText string) (*domain.WebsiteIntent, error) {
	reply, err := e.chat.Complete(ctx, extractionPrompt, englishText)
	if err != nil {
		return nil, wrapError(err, "Intent extraction failed - empty response")
	}

	raw := strings.TrimSpace(reply)
	if raw == "" {
		return nil, domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeEmptyResponse,
			"Intent extraction failed - empty response", nil)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &object); err != nil || object == nil {
		e.log.Warn("Model returned invalid JSON", zap.Int("length", len(raw)))
		return nil, domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeInvalidJSON,
			"Invalid JSON returned by model", err)
	}

	if errField, ok := object["error"]; ok && string(errField) != "null" {
		return nil, e.rejection(errField, object["message"])
	}

	var intent domain.WebsiteIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeInvalidIntent,
			"Model output does not match the website intent shape", err)
	}
	if err := intent.Validate(); err != nil {
		return nil, domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeInvalidIntent,
			"Model output is missing required fields: "+err.Error(), err)
	}

	e.log.Info("Website intent extracted",
		zap.String("business_type", intent.BusinessType),
		zap.Strings("sections", intent.Sections),
	)

	return &intent, nil
}

func (e *Extractor) rejection(errField, messageField json.RawMessage) error {
	var r rejection
	_ = json.Unmarshal(errField, &r.Error)
	_ = json.Unmarshal(messageField, &r.Message)

	if strings.EqualFold(strings.TrimSpace(r.Error), rejectionMultipleBusinesses) {
		message := r.Message
		if strings.TrimSpace(message) == "" {
			message = defaultRejectionMessage
		}
		e.log.Info("Model rejected input with multiple businesses")
		return domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeMultipleBusinesses, message, nil)
	}

	message := "Model returned an error"
	if r.Message != "" {
		message += ": " + r.Message
	}
	return domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeInvalidIntent, message, nil)
}
