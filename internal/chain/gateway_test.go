package chain

import (
	"context"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *GatewayClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGatewayClient(srv.URL, 2, time.Second, nil)
}

func TestGateway_BalanceOf(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/assets/"+asset.String()+"/balances/"+injector.String(), r.URL.Path)
		_, _ = w.Write([]byte(`{"balance":"600000000000000000000"}`))
	})

	bal, err := g.BalanceOf(context.Background(), asset, injector)
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("600000000000000000000", 10)
	assert.Equal(t, 0, want.Cmp(bal))
}

func TestGateway_BalanceNotInteger(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"balance":"lots"}`))
	})
	_, err := g.BalanceOf(context.Background(), asset, injector)
	assert.Error(t, err)
}

func TestGateway_EpochState(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/receivers/"+gaugeA.String()+"/rewards/"+asset.String(), r.URL.Path)
		_, _ = w.Write([]byte(`{"epoch_end":1700000000,"distributor":"0x00000000000000000000000000000000000000F1"}`))
	})

	state, err := g.EpochState(context.Background(), gaugeA, asset)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), state.EpochEnd)
	assert.Equal(t, injector, state.Distributor)
}

func TestGateway_DepositSendsBody(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/receivers/"+gaugeA.String()+"/rewards/"+asset.String()+"/deposits", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var req depositRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, injector, req.From)
		assert.Equal(t, "100", req.Amount)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, g.DepositReward(context.Background(), gaugeA, asset, injector, big.NewInt(100)))
}

func TestGateway_WriteErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"receiver reverted"}`))
	})

	err := g.DepositReward(context.Background(), gaugeA, asset, injector, big.NewInt(1))
	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusBadGateway, gwErr.Status)
	assert.Equal(t, "receiver reverted", gwErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGateway_ReadIsRetried(t *testing.T) {
	var calls atomic.Int32
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"balance":"5"}`))
	})

	bal, err := g.BalanceOf(context.Background(), asset, injector)
	require.NoError(t, err)
	assert.Equal(t, int64(5), bal.Int64())
	assert.Equal(t, int32(2), calls.Load())
}

func TestGateway_ClientErrorMessage(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := g.EpochState(context.Background(), gaugeA, asset)
	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "Not Found", gwErr.Message)
}
