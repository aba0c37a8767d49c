package providers

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/chain"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

// retryLogger adapts Logger to retryablehttp.LeveledLogger.
type retryLogger struct {
	logger Logger
}

func formatKV(msg string, kv []interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}

func (r retryLogger) Error(msg string, kv ...interface{}) {
	r.logger.Errorf(TypeChain, "%s", formatKV(msg, kv))
}
func (r retryLogger) Info(msg string, kv ...interface{}) {
	r.logger.Infof(TypeChain, "%s", formatKV(msg, kv))
}
func (r retryLogger) Debug(msg string, kv ...interface{}) {
	r.logger.Debugf(TypeChain, "%s", formatKV(msg, kv))
}
func (r retryLogger) Warn(msg string, kv ...interface{}) {
	r.logger.Warnf(TypeChain, "%s", formatKV(msg, kv))
}

// NewChainProvider builds the custody and receiver backend.
func NewChainProvider(conf *structures.Config, clock ClockInterface, logger Logger) chain.Chain {
	if conf.Chain.Mode == "gateway" {
		logger.Infof(TypeChain, "Using custody gateway %s", conf.Chain.GatewayURL)
		return chain.NewGatewayClient(
			strings.TrimSuffix(conf.Chain.GatewayURL, "/"),
			conf.Chain.Retries,
			conf.Chain.Timeout,
			retryLogger{logger: logger},
		)
	}
	asset := models.NewAddress(conf.Injector.Asset)
	self := models.NewAddress(conf.Injector.Self)
	logger.Warnf(TypeChain, "Using in-memory ledger for asset %s, balances are not durable", asset)

	mem := chain.NewMemory(clock.Now)
	for _, r := range conf.Chain.Receivers {
		receiver := models.NewAddress(r)
		mem.AddGauge(receiver, conf.Chain.EpochDuration)
		_ = mem.AddReward(receiver, asset, self)
	}
	if conf.Chain.Funding != "" {
		if funding, ok := new(big.Int).SetString(conf.Chain.Funding, 10); ok {
			mem.Mint(asset, self, funding)
		} else {
			logger.Errorf(TypeChain, "Ignoring chain.funding %q: not an integer", conf.Chain.Funding)
		}
	}
	return mem
}
