package services

import (
	"pickup/internal/core/domain/model/apiconfig"
)

// GatewaySelector picks the provider credentials used for one request or
// sync run.
type GatewaySelector struct{}

// NewGatewaySelector returns a stateless selector.
func NewGatewaySelector() GatewaySelector {
	return GatewaySelector{}
}

// Select returns the first usable config in the given order. Configs that are
// flagged valid but incomplete are skipped. When nothing qualifies the
// result is a ConfigurationError.
func (GatewaySelector) Select(configs []*apiconfig.Config) (*apiconfig.Config, error) {
	if len(configs) == 0 {
		return nil, apiconfig.NewConfigurationError("no valid provider config is stored")
	}

	for _, c := range configs {
		if c.Usable() {
			return c, nil
		}
	}

	return nil, apiconfig.NewConfigurationError("stored provider configs are disabled or incomplete")
}
