package persistence

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/testutil"
)

func TestScheduler_PersistAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.dat")
	conf := testConfig(path)

	svc, _ := newService(t, conf)
	populate(t, svc)
	logger := &testutil.MockLogger{}
	s := NewScheduler(conf, logger, svc, NewFileManager(&testutil.MockCompressor{}, svc, logger, &testutil.MockMetrics{}))
	require.NoError(t, s.Persist())

	_, err := os.Stat(path)
	require.NoError(t, err)

	restored, _ := newService(t, conf)
	r := NewScheduler(conf, logger, restored, NewFileManager(&testutil.MockCompressor{}, restored, logger, &testutil.MockMetrics{}))
	require.NoError(t, r.Restore())
	assert.Equal(t, []models.Address{recvA, recvB}, restored.GetWatchList())
}

func TestScheduler_Restore_FileNotExist(t *testing.T) {
	conf := testConfig("/nonexistent/file.dat")
	svc, _ := newService(t, conf)
	logger := &testutil.MockLogger{}
	s := NewScheduler(conf, logger, svc, NewFileManager(&testutil.MockCompressor{}, svc, logger, &testutil.MockMetrics{}))
	assert.NoError(t, s.Restore())
}

func TestScheduler_StopNilCron(t *testing.T) {
	conf := testConfig("/tmp/never-written.dat")
	svc, _ := newService(t, conf)
	logger := &testutil.MockLogger{}
	s := NewScheduler(conf, logger, svc, NewFileManager(&testutil.MockCompressor{}, svc, logger, &testutil.MockMetrics{}))
	s.Stop()
}

func TestScheduler_Upkeep(t *testing.T) {
	conf := testConfig("")
	svc, mem := newService(t, conf)
	populate(t, svc)
	mem.Mint(asset, self, big.NewInt(10))
	logger := &testutil.MockLogger{}
	s := NewScheduler(conf, logger, svc, nil).(*Scheduler)

	s.upkeep(context.Background())
	assert.Equal(t, uint32(1), svc.GetAccountInfo(recvA).PeriodNumber)
	assert.Zero(t, svc.GetAccountInfo(recvB).PeriodNumber, "second receiver is not funded")

	require.NoError(t, svc.Pause(context.Background(), owner))
	s.upkeep(context.Background())
	assert.Equal(t, uint32(1), svc.GetAccountInfo(recvA).PeriodNumber)
	assert.Zero(t, logger.Count("error"))
}

func TestScheduler_UpkeepLosesRoleWithKeeperChange(t *testing.T) {
	conf := testConfig("")
	svc, mem := newService(t, conf)
	populate(t, svc)
	mem.Mint(asset, self, big.NewInt(10))
	require.NoError(t, svc.SetKeeperAddress(owner, models.Address("0x00000000000000000000000000000000000000dd")))
	logger := &testutil.MockLogger{}
	s := NewScheduler(conf, logger, svc, nil).(*Scheduler)

	s.upkeep(context.Background())
	assert.Zero(t, svc.GetAccountInfo(recvA).PeriodNumber)
	assert.Equal(t, 1, logger.Count("error"))
}

func TestScheduler_InitAndStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycle.dat")
	conf := testConfig(path)
	conf.Keeper.Enabled = true
	svc, _ := newService(t, conf)
	logger := &testutil.MockLogger{}
	s := NewScheduler(conf, logger, svc, NewFileManager(&testutil.MockCompressor{}, svc, logger, &testutil.MockMetrics{}))

	s.Init()
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}
