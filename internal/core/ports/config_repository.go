package ports

import (
	"context"

	"pickup/internal/core/domain/model/apiconfig"
)

// ConfigRepository stores provider credentials.
type ConfigRepository interface {
	Add(ctx context.Context, cfg *apiconfig.Config) error

	// FindValid returns the configs flagged valid, oldest first.
	FindValid(ctx context.Context) ([]*apiconfig.Config, error)
}
