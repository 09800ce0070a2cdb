package instances

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
)

type instanceService struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates an allowlist validation service
func NewService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &instanceService{
		repo:   repo,
		logger: logger,
	}
}

// IsAllowedURL checks the URL scheme and matches its host against the
// allowlist. Federation object URLs are always https, so anything else is
// rejected before touching the store.
func (s *instanceService) IsAllowedURL(ctx context.Context, rawURL string) (bool, error) {
	if !strings.HasPrefix(rawURL, "https://") {
		return false, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, nil
	}

	host := parsed.Hostname()
	if host == "" {
		return false, nil
	}

	allowed, err := s.repo.HostExists(ctx, host)
	if err != nil {
		return false, err
	}
	if !allowed {
		s.logger.Debug("instance not in allowlist", "host", host)
	}
	return allowed, nil
}
