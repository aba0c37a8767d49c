package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrUnknownReceiver       = errors.New("unknown receiver")
	ErrNotDistributor        = errors.New("caller is not the reward distributor")
	ErrDepositRejected       = errors.New("deposit rejected")
)

type allowanceKey struct {
	asset   models.Address
	owner   models.Address
	spender models.Address
}

type reward struct {
	distributor models.Address
	epochEnd    int64
}

type gauge struct {
	epochDuration time.Duration
	rewards       map[models.Address]*reward
	reject        bool
}

// Memory is an in-process ledger with streaming gauges. A successful deposit
// pulls the approved amount from the distributor and starts a new epoch.
type Memory struct {
	mu         sync.Mutex
	now        func() time.Time
	balances   map[models.Address]map[models.Address]*big.Int
	allowances map[allowanceKey]*big.Int
	gauges     map[models.Address]*gauge
}

func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		now:        now,
		balances:   make(map[models.Address]map[models.Address]*big.Int),
		allowances: make(map[allowanceKey]*big.Int),
		gauges:     make(map[models.Address]*gauge),
	}
}

func (m *Memory) balance(asset, holder models.Address) *big.Int {
	holders, ok := m.balances[asset]
	if !ok {
		holders = make(map[models.Address]*big.Int)
		m.balances[asset] = holders
	}
	b, ok := holders[holder]
	if !ok {
		b = new(big.Int)
		holders[holder] = b
	}
	return b
}

// Mint credits holder with amount of asset.
func (m *Memory) Mint(asset, holder models.Address, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.balance(asset, holder)
	b.Add(b, amount)
}

// AddGauge registers a receiver whose epochs last epochDuration.
func (m *Memory) AddGauge(receiver models.Address, epochDuration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[receiver] = &gauge{
		epochDuration: epochDuration,
		rewards:       make(map[models.Address]*reward),
	}
}

// AddReward sets the distributor allowed to deposit asset into receiver.
func (m *Memory) AddReward(receiver, asset, distributor models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gauges[receiver]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReceiver, receiver)
	}
	g.rewards[asset] = &reward{distributor: distributor}
	return nil
}

func (m *Memory) SetEpochEnd(receiver, asset models.Address, end int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.reward(receiver, asset)
	if err != nil {
		return err
	}
	r.epochEnd = end
	return nil
}

// RejectDeposits makes every following deposit into receiver fail.
func (m *Memory) RejectDeposits(receiver models.Address, reject bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.gauges[receiver]; ok {
		g.reject = reject
	}
}

func (m *Memory) Allowance(asset, owner, spender models.Address) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.allowances[allowanceKey{asset, owner, spender}]; ok {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

func (m *Memory) reward(receiver, asset models.Address) (*reward, error) {
	g, ok := m.gauges[receiver]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReceiver, receiver)
	}
	r, ok := g.rewards[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no reward for %s", ErrUnknownReceiver, receiver, asset)
	}
	return r, nil
}

func (m *Memory) BalanceOf(_ context.Context, asset, holder models.Address) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return new(big.Int).Set(m.balance(asset, holder)), nil
}

func (m *Memory) Approve(_ context.Context, asset, owner, spender models.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowances[allowanceKey{asset, owner, spender}] = new(big.Int).Set(amount)
	return nil
}

func (m *Memory) Transfer(_ context.Context, asset, from, to models.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.move(asset, from, to, amount)
}

func (m *Memory) move(asset, from, to models.Address, amount *big.Int) error {
	src := m.balance(asset, from)
	if src.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientBalance, from, src, amount)
	}
	dst := m.balance(asset, to)
	src.Sub(src, amount)
	dst.Add(dst, amount)
	return nil
}

func (m *Memory) EpochState(_ context.Context, receiver, asset models.Address) (EpochState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.reward(receiver, asset)
	if err != nil {
		return EpochState{}, err
	}
	return EpochState{EpochEnd: r.epochEnd, Distributor: r.distributor}, nil
}

func (m *Memory) DepositReward(_ context.Context, receiver, asset, from models.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.reward(receiver, asset)
	if err != nil {
		return err
	}
	g := m.gauges[receiver]
	if g.reject {
		return fmt.Errorf("%w by %s", ErrDepositRejected, receiver)
	}
	if r.distributor != from {
		return fmt.Errorf("%w: %s", ErrNotDistributor, from)
	}
	key := allowanceKey{asset, from, receiver}
	allowance, ok := m.allowances[key]
	if !ok || allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s approved less than %s", ErrInsufficientAllowance, from, amount)
	}
	if err := m.move(asset, from, receiver, amount); err != nil {
		return err
	}
	allowance.Sub(allowance, amount)
	r.epochEnd = m.now().Add(g.epochDuration).Unix()
	return nil
}

func (m *Memory) SetDistributor(_ context.Context, receiver, asset, from, distributor models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.reward(receiver, asset)
	if err != nil {
		return err
	}
	if r.distributor != from {
		return fmt.Errorf("%w: %s", ErrNotDistributor, from)
	}
	r.distributor = distributor
	return nil
}
