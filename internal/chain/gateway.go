package chain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
)

const maxResponseSize = 1 << 20

// GatewayError is a non-2xx answer from the custody gateway.
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Message)
}

// GatewayClient talks to an HTTP custody gateway that fronts the asset ledger
// and the reward receivers. Reads are retried, writes are sent once.
type GatewayClient struct {
	baseURL string
	read    *retryablehttp.Client
	write   *retryablehttp.Client
}

func NewGatewayClient(baseURL string, retries int, timeout time.Duration, logger retryablehttp.LeveledLogger) *GatewayClient {
	newClient := func(retryMax int) *retryablehttp.Client {
		c := retryablehttp.NewClient()
		c.RetryMax = retryMax
		c.RetryWaitMin = 200 * time.Millisecond
		c.RetryWaitMax = 2 * time.Second
		if timeout > 0 {
			c.HTTPClient.Timeout = timeout
		}
		c.Logger = logger
		c.ErrorHandler = retryablehttp.PassthroughErrorHandler
		return c
	}
	return &GatewayClient{
		baseURL: baseURL,
		read:    newClient(retries),
		write:   newClient(0),
	}
}

func (g *GatewayClient) endpoint(parts ...string) string {
	u := g.baseURL
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}

func (g *GatewayClient) do(ctx context.Context, client *retryablehttp.Client, method, endpoint string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(data, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &GatewayError{Status: resp.StatusCode, Message: msg}
	}
	return data, nil
}

func parseAmount(raw gjson.Result) (*big.Int, error) {
	if !raw.Exists() {
		return nil, fmt.Errorf("gateway response has no amount")
	}
	v, ok := new(big.Int).SetString(raw.String(), 10)
	if !ok {
		return nil, fmt.Errorf("gateway amount %q is not an integer", raw.String())
	}
	return v, nil
}

func (g *GatewayClient) BalanceOf(ctx context.Context, asset, holder models.Address) (*big.Int, error) {
	data, err := g.do(ctx, g.read, http.MethodGet, g.endpoint("assets", asset.String(), "balances", holder.String()), nil)
	if err != nil {
		return nil, err
	}
	return parseAmount(gjson.GetBytes(data, "balance"))
}

type approvalRequest struct {
	Owner   models.Address `json:"owner"`
	Spender models.Address `json:"spender"`
	Amount  string         `json:"amount"`
}

func (g *GatewayClient) Approve(ctx context.Context, asset, owner, spender models.Address, amount *big.Int) error {
	_, err := g.do(ctx, g.write, http.MethodPost, g.endpoint("assets", asset.String(), "approvals"),
		approvalRequest{Owner: owner, Spender: spender, Amount: amount.String()})
	return err
}

type transferRequest struct {
	From   models.Address `json:"from"`
	To     models.Address `json:"to"`
	Amount string         `json:"amount"`
}

func (g *GatewayClient) Transfer(ctx context.Context, asset, from, to models.Address, amount *big.Int) error {
	_, err := g.do(ctx, g.write, http.MethodPost, g.endpoint("assets", asset.String(), "transfers"),
		transferRequest{From: from, To: to, Amount: amount.String()})
	return err
}

func (g *GatewayClient) EpochState(ctx context.Context, receiver, asset models.Address) (EpochState, error) {
	data, err := g.do(ctx, g.read, http.MethodGet, g.endpoint("receivers", receiver.String(), "rewards", asset.String()), nil)
	if err != nil {
		return EpochState{}, err
	}
	res := gjson.GetManyBytes(data, "epoch_end", "distributor")
	if !res[0].Exists() {
		return EpochState{}, fmt.Errorf("gateway reward data for %s has no epoch_end", receiver)
	}
	return EpochState{
		EpochEnd:    res[0].Int(),
		Distributor: models.NewAddress(res[1].String()),
	}, nil
}

type depositRequest struct {
	From   models.Address `json:"from"`
	Amount string         `json:"amount"`
}

func (g *GatewayClient) DepositReward(ctx context.Context, receiver, asset, from models.Address, amount *big.Int) error {
	_, err := g.do(ctx, g.write, http.MethodPost, g.endpoint("receivers", receiver.String(), "rewards", asset.String(), "deposits"),
		depositRequest{From: from, Amount: amount.String()})
	return err
}

type distributorRequest struct {
	From        models.Address `json:"from"`
	Distributor models.Address `json:"distributor"`
}

func (g *GatewayClient) SetDistributor(ctx context.Context, receiver, asset, from, distributor models.Address) error {
	_, err := g.do(ctx, g.write, http.MethodPut, g.endpoint("receivers", receiver.String(), "rewards", asset.String(), "distributor"),
		distributorRequest{From: from, Distributor: distributor})
	return err
}
