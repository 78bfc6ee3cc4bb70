package apiconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
)

// ErrConfigIsNotConstructed is returned by Validate for a zero-value Config.
var ErrConfigIsNotConstructed = errors.New("Config must be created via NewConfig or RestoreConfig")

// ErrConfiguration is the sentinel every ConfigurationError unwraps to.
var ErrConfiguration = errors.New("provider configuration error")

// ConfigurationError reports that no usable provider credentials are available.
type ConfigurationError struct {
	Reason string
}

// NewConfigurationError reports that no usable provider config is available.
func NewConfigurationError(reason string) *ConfigurationError {
	return &ConfigurationError{Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// Config is one set of credentials for the logistics gateway. Only configs
// marked valid take part in gateway selection.
type Config struct {
	id         kernel.UUID
	name       string
	appKey     string
	appSecret  string
	accessCode string
	providerID string
	apiGateway string
	valid      bool

	isConstructed bool
}

// Params holds the raw fields of a Config.
type Params struct {
	Name       string
	AppKey     string
	AppSecret  string
	AccessCode string
	ProviderID string
	APIGateway string
	Valid      bool
}

// NewConfig builds a new provider config with a fresh identifier.
func NewConfig(p Params) (*Config, error) {
	return RestoreConfig(kernel.NewUUID(), p)
}

// RestoreConfig rebuilds a persisted config.
func RestoreConfig(id kernel.UUID, p Params) (*Config, error) {
	c := &Config{
		id:            id,
		name:          strings.TrimSpace(p.Name),
		appKey:        strings.TrimSpace(p.AppKey),
		appSecret:     p.AppSecret,
		accessCode:    strings.TrimSpace(p.AccessCode),
		providerID:    strings.TrimSpace(p.ProviderID),
		apiGateway:    strings.TrimSpace(p.APIGateway),
		valid:         p.Valid,
		isConstructed: true,
	}

	if err := errors.Join(id.Validate(), c.validateFields()); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validateFields() error {
	var gatewayErr error
	if c.apiGateway == "" {
		gatewayErr = errs.NewValueIsRequiredError("apiGateway")
	} else if u, err := url.Parse(c.apiGateway); err != nil || u.Scheme == "" || u.Host == "" {
		gatewayErr = errs.NewValueIsInvalidErrorWithCause("apiGateway", fmt.Errorf("%q is not an absolute URL", c.apiGateway))
	}

	return errors.Join(
		requiredField("appSecret", c.appSecret),
		requiredField("providerID", c.providerID),
		gatewayErr,
	)
}

func requiredField(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

// Validate reports whether the config was built by NewConfig or RestoreConfig.
func (c *Config) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrConfigIsNotConstructed
	}
	return nil
}

func (c *Config) ID() kernel.UUID    { return c.id }
func (c *Config) Name() string       { return c.name }
func (c *Config) AppKey() string     { return c.appKey }
func (c *Config) AppSecret() string  { return c.appSecret }
func (c *Config) AccessCode() string { return c.accessCode }
func (c *Config) ProviderID() string { return c.providerID }
func (c *Config) APIGateway() string { return c.apiGateway }
func (c *Config) IsValid() bool      { return c.valid }

// Usable reports whether the config is flagged valid and carries everything
// needed to sign and send a request.
func (c *Config) Usable() bool {
	return c.Validate() == nil && c.valid && c.validateFields() == nil
}

// Invalidate excludes the config from selection.
func (c *Config) Invalidate() {
	c.valid = false
}

// Activate makes the config eligible for selection again.
func (c *Config) Activate() {
	c.valid = true
}
