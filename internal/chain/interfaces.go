package chain

import (
	"context"
	"math/big"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
)

// EpochState is what a receiver reports about its current reward epoch for an asset.
type EpochState struct {
	EpochEnd    int64
	Distributor models.Address
}

// Custody is the asset ledger holding the injector's funds.
type Custody interface {
	BalanceOf(ctx context.Context, asset, holder models.Address) (*big.Int, error)
	Approve(ctx context.Context, asset, owner, spender models.Address, amount *big.Int) error
	Transfer(ctx context.Context, asset, from, to models.Address, amount *big.Int) error
}

// Receivers exposes the reward receivers' epoch oracle and entry points.
type Receivers interface {
	EpochState(ctx context.Context, receiver, asset models.Address) (EpochState, error)
	DepositReward(ctx context.Context, receiver, asset, from models.Address, amount *big.Int) error
	SetDistributor(ctx context.Context, receiver, asset, from, distributor models.Address) error
}

type Chain interface {
	Custody
	Receivers
}
