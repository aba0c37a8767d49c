package providers

import (
	"fmt"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("chain.mode", "memory")
	v.SetDefault("chain.retries", 3)
	v.SetDefault("chain.timeout", "10s")
	v.SetDefault("chain.epochDuration", "168h")
	v.SetDefault("persistence.saveInterval", "30s")
	v.SetDefault("persistence.compression", "default")

	v.BindEnv("logger.level", "INJECTOR_LOG_LEVEL")
	v.BindEnv("injector.minWaitPeriod", "INJECTOR_MIN_WAIT_PERIOD")
	v.BindEnv("injector.keeper", "INJECTOR_KEEPER")
	v.BindEnv("chain.mode", "INJECTOR_CHAIN_MODE")
	v.BindEnv("chain.gatewayURL", "INJECTOR_GATEWAY_URL")
	v.BindEnv("auth.secret", "INJECTOR_AUTH_SECRET")
	v.BindEnv("persistence.saveInterval", "INJECTOR_SAVE_INTERVAL")
	v.BindEnv("cache.enabled", "INJECTOR_CACHE_ENABLED")
	v.BindEnv("cache.size", "INJECTOR_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	conf.AppName = "PeriodicRewardsInjector"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	return &conf, nil
}
