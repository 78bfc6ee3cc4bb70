package configrepo

import (
	"context"

	"pickup/internal/core/domain/model/apiconfig"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormConfigRepository stores provider credentials in provider_configs.
type GormConfigRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormConfigRepository creates a repository over db.
func NewGormConfigRepository(db *gorm.DB, logger *zap.Logger) *GormConfigRepository {
	return &GormConfigRepository{db: db, logger: logger}
}

// Add inserts a provider config.
func (r *GormConfigRepository) Add(ctx context.Context, cfg *apiconfig.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	dto := fromDomain(cfg)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// FindValid skips rows that no longer pass validation instead of failing
// the whole lookup; each skipped row is logged.
func (r *GormConfigRepository) FindValid(ctx context.Context) ([]*apiconfig.Config, error) {
	var dtos []ConfigDTO
	if err := r.db.WithContext(ctx).Where("valid = ?", true).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	configs := make([]*apiconfig.Config, 0, len(dtos))
	for _, dto := range dtos {
		cfg, err := toDomain(dto)
		if err != nil {
			r.logger.Warn("skipping malformed provider config",
				zap.String("config_id", dto.ID.String()),
				zap.String("name", dto.Name),
				zap.Error(err),
			)
			continue
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
