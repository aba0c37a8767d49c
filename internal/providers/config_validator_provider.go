package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

func init() {
	validate.AddValidator("address", func(val any) bool {
		s, ok := val.(string)
		return ok && models.IsValidAddress(s)
	})
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if cv.conf.Chain.Mode == "gateway" && cv.conf.Chain.GatewayURL == "" {
		return fmt.Errorf("chain.gatewayURL is required in gateway mode")
	}
	if cv.conf.Keeper.Enabled && cv.conf.Keeper.Interval <= 0 {
		return fmt.Errorf("keeper.interval must be positive when the keeper is enabled")
	}
	if cv.conf.Auth.Enabled && len(cv.conf.Auth.Secret) < 32 {
		return fmt.Errorf("auth.secret must be at least 32 bytes")
	}
	if cv.conf.Injector.MinWaitPeriod < 0 {
		return fmt.Errorf("injector.minWaitPeriod must not be negative")
	}
	return nil
}
