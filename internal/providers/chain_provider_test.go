package providers

import (
	"context"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/chain"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainProvider_MemorySeedsGaugesAndFunding(t *testing.T) {
	conf := validConfig()
	conf.Chain.EpochDuration = time.Hour
	conf.Chain.Receivers = []string{"0x00000000000000000000000000000000000000A1"}
	conf.Chain.Funding = "900"

	c := NewChainProvider(conf, fixedClock{t: time.Unix(100, 0)}, &cacheTestLogger{})
	_, ok := c.(*chain.Memory)
	require.True(t, ok)

	ctx := context.Background()
	asset := models.NewAddress(conf.Injector.Asset)
	bal, err := c.BalanceOf(ctx, asset, models.NewAddress(conf.Injector.Self))
	require.NoError(t, err)
	assert.Equal(t, int64(900), bal.Int64())

	state, err := c.EpochState(ctx, "0x00000000000000000000000000000000000000a1", asset)
	require.NoError(t, err)
	assert.Equal(t, models.NewAddress(conf.Injector.Self), state.Distributor)
}

func TestChainProvider_Gateway(t *testing.T) {
	conf := &structures.Config{Chain: structures.ChainConfig{Mode: "gateway", GatewayURL: "http://custody.local/"}}
	c := NewChainProvider(conf, fixedClock{t: time.Now()}, &cacheTestLogger{})
	_, ok := c.(*chain.GatewayClient)
	assert.True(t, ok)
}
