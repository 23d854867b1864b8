package website

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/domain"
)

// HandleWebsiteSaved evicts the cached copy of a website saved by another
// instance. It is subscribed to domain.SubjectWebsiteSaved.
func (s *Service) HandleWebsiteSaved(data []byte) error {
	var event domain.WebsiteSavedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decode website.saved event: %w", err)
	}
	if event.Slug == "" {
		return nil
	}

	if err := s.cache.Delete(context.Background(), slugKey(event.Slug)); err != nil {
		return fmt.Errorf("evict website %s: %w", event.Slug, err)
	}

	s.log.Debug("Evicted cached website", zap.String("slug", event.Slug))
	return nil
}
