package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/chain"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/testutil"
)

const week = 7 * 24 * time.Hour

var (
	testAsset  = addr(0xa55e7)
	testSelf   = addr(0x5e1f)
	testOwner  = addr(0x0a11e7)
	testKeeper = addr(0xcee9e7)
	stranger   = addr(0xbad)
)

func addr(n int) models.Address {
	return models.Address(fmt.Sprintf("0x%040x", n))
}

func bigs(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

type fixture struct {
	svc     InjectorServiceInterface
	chain   *chain.Memory
	clock   *testutil.ManualClock
	history *testutil.MockHistory
	metrics *testutil.MockMetrics
	logger  *testutil.MockLogger
}

func testConfig(minWait time.Duration) *structures.Config {
	return &structures.Config{
		Injector: structures.InjectorConfig{
			Asset:         testAsset.String(),
			Self:          testSelf.String(),
			Owner:         testOwner.String(),
			Keeper:        testKeeper.String(),
			MinWaitPeriod: minWait,
		},
	}
}

func newFixture(t *testing.T, minWait time.Duration) *fixture {
	t.Helper()
	clock := testutil.NewManualClock(time.Unix(1_700_000_000, 0))
	mem := chain.NewMemory(clock.Now)
	f := &fixture{
		chain:   mem,
		clock:   clock,
		history: &testutil.MockHistory{},
		metrics: &testutil.MockMetrics{},
		logger:  &testutil.MockLogger{},
	}
	f.svc = NewInjectorService(testConfig(minWait), f.logger, clock, mem, f.history, f.metrics)
	return f
}

// gauge registers a receiver that accepts the test asset from the injector.
func (f *fixture) gauge(t *testing.T, ids ...models.Address) {
	t.Helper()
	for _, id := range ids {
		f.chain.AddGauge(id, week)
		require.NoError(t, f.chain.AddReward(id, testAsset, testSelf))
	}
}

func (f *fixture) fund(amount int64) {
	f.chain.Mint(testAsset, testSelf, big.NewInt(amount))
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	b, err := f.chain.BalanceOf(context.Background(), testAsset, testSelf)
	require.NoError(t, err)
	return b.Int64()
}

func TestSetRecipientList_WritesFreshTargets(t *testing.T) {
	f := newFixture(t, 0)
	ids := []models.Address{addr(1), addr(2), addr(3)}

	require.NoError(t, f.svc.SetRecipientList(context.Background(), testOwner, ids, bigs(10, 20, 30), []uint32{1, 2, 3}))

	assert.Equal(t, ids, f.svc.GetWatchList())
	for i, id := range ids {
		info := f.svc.GetAccountInfo(id)
		assert.True(t, info.IsActive)
		assert.Equal(t, int64((i+1)*10), info.AmountPerPeriod.Int64())
		assert.Equal(t, uint32(i+1), info.MaxPeriods)
		assert.Zero(t, info.PeriodNumber)
		assert.Zero(t, info.LastInjectionTimestamp)
	}
	assert.Equal(t, 3, f.metrics.WatchList)
	assert.Equal(t, []models.EventKind{models.EventListReplaced}, f.history.Kinds())
}

func TestSetRecipientList_OnlyOwner(t *testing.T) {
	f := newFixture(t, 0)
	err := f.svc.SetRecipientList(context.Background(), stranger, []models.Address{addr(1)}, bigs(1), []uint32{1})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Empty(t, f.svc.GetWatchList())
}

func TestSetRecipientList_MismatchedLengthsKeepPreviousList(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	prev := []models.Address{addr(1), addr(2)}
	require.NoError(t, f.svc.SetRecipientList(ctx, testOwner, prev, bigs(1, 2), []uint32{1, 1}))
	version := f.svc.Version()

	err := f.svc.SetRecipientList(ctx, testOwner, []models.Address{addr(3), addr(4)}, bigs(1), []uint32{1, 1})
	require.ErrorIs(t, err, models.ErrValidation)

	assert.Equal(t, prev, f.svc.GetWatchList())
	assert.True(t, f.svc.GetAccountInfo(addr(1)).IsActive)
	assert.True(t, f.svc.GetAccountInfo(addr(2)).IsActive)
	assert.Equal(t, version, f.svc.Version())
}

func TestSetRecipientList_RejectsBadInput(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	tests := []struct {
		name    string
		ids     []models.Address
		amounts []*big.Int
		want    error
	}{
		{"zero id", []models.Address{models.ZeroAddress}, bigs(1), models.ErrValidation},
		{"zero amount", []models.Address{addr(1)}, bigs(0), models.ErrValidation},
		{"duplicate", []models.Address{addr(1), addr(1)}, bigs(1, 1), models.ErrDuplicateEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods := make([]uint32, len(tt.ids))
			err := f.svc.SetRecipientList(ctx, testOwner, tt.ids, tt.amounts, periods)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.svc.GetWatchList())
}

func TestSetRecipientList_DeactivatesPreviousGeneration(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, f.svc.SetRecipientList(ctx, testOwner, []models.Address{addr(1), addr(2)}, bigs(1, 2), []uint32{1, 1}))
	require.NoError(t, f.svc.SetRecipientList(ctx, testOwner, []models.Address{addr(2), addr(3)}, bigs(5, 6), []uint32{4, 4}))

	assert.Equal(t, []models.Address{addr(2), addr(3)}, f.svc.GetWatchList())
	old := f.svc.GetAccountInfo(addr(1))
	assert.False(t, old.IsActive)
	assert.Equal(t, int64(1), old.AmountPerPeriod.Int64())

	readded := f.svc.GetAccountInfo(addr(2))
	assert.True(t, readded.IsActive)
	assert.Equal(t, int64(5), readded.AmountPerPeriod.Int64())
	assert.Equal(t, uint32(4), readded.MaxPeriods)
}

func TestSetValidatedRecipientList_NotFinished(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, f.svc.SetRecipientList(ctx, testOwner, []models.Address{addr(1)}, bigs(1), []uint32{2}))

	err := f.svc.SetValidatedRecipientList(ctx, testOwner, []models.Address{addr(2)}, bigs(1), []uint32{1})
	require.ErrorIs(t, err, models.ErrNotFinished)
	assert.Equal(t, []models.Address{addr(1)}, f.svc.GetWatchList())
}

func TestSetValidatedRecipientList_BalanceMismatchRollsBack(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.fund(10)

	err := f.svc.SetValidatedRecipientList(ctx, testOwner, []models.Address{addr(1), addr(2)}, bigs(1, 2), []uint32{3, 3})
	require.ErrorIs(t, err, models.ErrBalanceMismatch)
	assert.Empty(t, f.svc.GetWatchList())
	assert.False(t, f.svc.GetAccountInfo(addr(1)).IsActive)
	assert.Empty(t, f.history.Events)
}

func TestSetValidatedRecipientList_ExactBalance(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.fund(9)

	require.NoError(t, f.svc.SetValidatedRecipientList(ctx, testOwner, []models.Address{addr(1), addr(2)}, bigs(1, 2), []uint32{3, 3}))
	assert.Len(t, f.svc.GetWatchList(), 2)

	match, err := f.svc.CheckBalancesMatch(ctx)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestSetValidatedRecipientList_ValidatesInputAfterFinishedCheck(t *testing.T) {
	f := newFixture(t, 0)
	err := f.svc.SetValidatedRecipientList(context.Background(), testOwner, []models.Address{addr(1)}, bigs(1, 2), []uint32{1})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCheckBalancesMatch(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.gauge(t, addr(1))
	require.NoError(t, f.svc.SetRecipientList(ctx, testOwner, []models.Address{addr(1)}, bigs(4), []uint32{2}))

	match, err := f.svc.CheckBalancesMatch(ctx)
	require.NoError(t, err)
	assert.False(t, match)

	f.fund(8)
	match, err = f.svc.CheckBalancesMatch(ctx)
	require.NoError(t, err)
	assert.True(t, match)

	_, err = f.svc.ExecuteInjections(ctx, testKeeper, []models.Address{addr(1)})
	require.NoError(t, err)
	match, err = f.svc.CheckBalancesMatch(ctx)
	require.NoError(t, err)
	assert.True(t, match, "outstanding and balance shrink together")

	f.fund(1)
	match, err = f.svc.CheckBalancesMatch(ctx)
	require.NoError(t, err)
	assert.False(t, match, "a stray transfer breaks equality")
}

func TestSnapshot_RestoreRoundtrip(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	f.gauge(t, addr(1), addr(2))
	f.fund(100)
	require.NoError(t, f.svc.SetRecipientList(ctx, testOwner, []models.Address{addr(1), addr(2)}, bigs(5, 7), []uint32{3, 3}))
	_, err := f.svc.ExecuteInjections(ctx, testKeeper, []models.Address{addr(1)})
	require.NoError(t, err)
	require.NoError(t, f.svc.SetKeeperAddress(testOwner, addr(0x99)))
	require.NoError(t, f.svc.Pause(ctx, testOwner))

	snap := f.svc.GetSnapshot()
	assert.Equal(t, models.StorageVersion, snap.Version)
	assert.Equal(t, int64(3600), snap.MinWaitPeriod)

	restored := newFixture(t, 0)
	require.NoError(t, restored.svc.Restore(snap))

	assert.Equal(t, f.svc.GetWatchList(), restored.svc.GetWatchList())
	assert.Equal(t, f.svc.GetAccountInfo(addr(1)), restored.svc.GetAccountInfo(addr(1)))
	settings := restored.svc.Settings()
	assert.True(t, settings.Paused)
	assert.Equal(t, addr(0x99), settings.Keeper)
	assert.Equal(t, time.Hour, settings.MinWaitPeriod)
	assert.True(t, restored.metrics.Paused)
}

func TestRestore_RejectsUnknownVersion(t *testing.T) {
	f := newFixture(t, 0)
	err := f.svc.Restore(&models.Storage{Version: 99})
	assert.True(t, errors.Is(err, models.ErrInvalidSnapshot))
	assert.NoError(t, f.svc.Restore(nil))
}

func TestRestore_RejectsBrokenInvariants(t *testing.T) {
	f := newFixture(t, 0)
	err := f.svc.Restore(&models.Storage{
		Version:   models.StorageVersion,
		WatchList: []models.Address{addr(1)},
		Targets: map[models.Address]*models.Target{
			addr(1): {IsActive: true, AmountPerPeriod: big.NewInt(1), MaxPeriods: 1, PeriodNumber: 5},
		},
	})
	assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
	assert.Empty(t, f.svc.GetWatchList())
}
