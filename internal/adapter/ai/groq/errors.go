package groq

import (
	"errors"

	oai "github.com/openai/openai-go"

	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/infrastructure/circuitbreaker"
)

// wrapError maps a chat call failure to a Groq external service error.
func wrapError(err error, fallback string) error {
	if circuitbreaker.IsCircuitOpen(err) {
		return domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeCircuitOpen,
			"Language model service temporarily unavailable", err)
	}
	if errors.Is(err, ErrEmptyResponse) {
		return domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeEmptyResponse, fallback, err)
	}

	var apiErr *oai.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeProviderError, apiErr.Message, err)
	}

	message := err.Error()
	if message == "" {
		message = fallback
	}
	return domain.NewExternalServiceError(domain.ServiceGroq, domain.CodeProviderError, message, err)
}
