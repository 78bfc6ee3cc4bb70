package configrepo

import (
	"time"

	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ConfigDTO is the provider_configs row.
type ConfigDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(64);not null"`
	AppKey     string    `gorm:"type:varchar(128)"`
	AppSecret  string    `gorm:"type:varchar(255);not null"`
	AccessCode string    `gorm:"type:varchar(128)"`
	ProviderID string    `gorm:"type:varchar(128);not null"`
	APIGateway string    `gorm:"column:api_gateway;type:varchar(512);not null"`
	Valid      bool      `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ConfigDTO) TableName() string {
	return "provider_configs"
}

func fromDomain(c *apiconfig.Config) ConfigDTO {
	return ConfigDTO{
		ID:         c.ID().Bytes(),
		Name:       c.Name(),
		AppKey:     c.AppKey(),
		AppSecret:  c.AppSecret(),
		AccessCode: c.AccessCode(),
		ProviderID: c.ProviderID(),
		APIGateway: c.APIGateway(),
		Valid:      c.IsValid(),
	}
}

func toDomain(dto ConfigDTO) (*apiconfig.Config, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return apiconfig.RestoreConfig(id, apiconfig.Params{
		Name:       dto.Name,
		AppKey:     dto.AppKey,
		AppSecret:  dto.AppSecret,
		AccessCode: dto.AccessCode,
		ProviderID: dto.ProviderID,
		APIGateway: dto.APIGateway,
		Valid:      dto.Valid,
	})
}
