package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/troutctl/internal/domain"
)

// versionTimeout bounds the header version lookup
const versionTimeout = 3 * time.Second

// SessionService covers server metadata and the local cache lifetime
type SessionService struct {
	meta   domain.MetadataRepository
	store  domain.Store
	logger *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(meta domain.MetadataRepository, store domain.Store, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{meta: meta, store: store, logger: logger}
}

// ServerVersion returns the server's version string, or "" if the lookup
// fails for any reason
func (s *SessionService) ServerVersion(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	v, err := s.meta.Version(ctx)
	if err != nil {
		s.logger.Debug("version lookup failed", "error", err)
		return ""
	}
	return v
}

// Reset drops every cached collection, in memory and on disk. The next
// refresh repopulates them from the server.
func (s *SessionService) Reset() {
	s.store.InvalidateAll()
	s.logger.Info("collection cache reset")
}
