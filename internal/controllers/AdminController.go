package controllers

import (
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/services"
)

// AdminController serves the owner-only endpoints. The service checks the
// caller's role, the controller only resolves who the caller is.
type AdminController struct {
	logger  providers.Logger
	service services.InjectorServiceInterface
	auth    providers.AuthProviderInterface
}

func NewAdminController(logger providers.Logger, service services.InjectorServiceInterface, auth providers.AuthProviderInterface) *AdminController {
	return &AdminController{
		logger:  logger,
		service: service,
		auth:    auth,
	}
}

type recipientListRequest struct {
	IDs        []string `json:"ids"`
	Amounts    []string `json:"amounts"`
	MaxPeriods []uint32 `json:"maxPeriods"`
}

type sweepRequest struct {
	Asset string `json:"asset"`
	To    string `json:"to"`
}

type receiverRequest struct {
	Receiver string `json:"receiver"`
	Asset    string `json:"asset"`
	Amount   string `json:"amount"`
}

type keeperRequest struct {
	Keeper string `json:"keeper"`
}

type minWaitRequest struct {
	Seconds int64 `json:"seconds"`
}

func parseAmount(field, raw string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a decimal integer", models.ErrValidation, field)
	}
	return amount, nil
}

// parse converts the request into service arguments. Lengths are checked by
// the service together with the rest of the list validation.
func (req recipientListRequest) parse() ([]models.Address, []*big.Int, error) {
	ids := make([]models.Address, len(req.IDs))
	for i, raw := range req.IDs {
		id, err := parseAddress(fmt.Sprintf("ids[%d]", i), raw)
		if err != nil {
			return nil, nil, err
		}
		ids[i] = id
	}
	amounts := make([]*big.Int, len(req.Amounts))
	for i, raw := range req.Amounts {
		amount, err := parseAmount(fmt.Sprintf("amounts[%d]", i), raw)
		if err != nil {
			return nil, nil, err
		}
		amounts[i] = amount
	}
	return ids, amounts, nil
}

// handle authenticates the caller, decodes the body into req when it is not
// nil and runs fn. A nil result answers 204.
func (ac *AdminController) handle(w http.ResponseWriter, r *http.Request, req any, fn func(caller models.Address) (any, error)) {
	caller, err := ac.auth.Authenticate(r)
	if err != nil {
		writeError(w, ac.logger, r, err, nil)
		return
	}
	if req != nil {
		if err := decodeBody(w, r, req); err != nil {
			writeError(w, ac.logger, r, err, nil)
			return
		}
	}

	result, err := fn(caller)
	if err != nil {
		writeError(w, ac.logger, r, err, nil)
		return
	}
	ac.logger.Infof(providers.TypePost, "%s %s by %s", r.Method, r.URL.Path, caller)
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (ac *AdminController) SetRecipientList(w http.ResponseWriter, r *http.Request) {
	var req recipientListRequest
	ac.handle(w, r, &req, func(caller models.Address) (any, error) {
		ids, amounts, err := req.parse()
		if err != nil {
			return nil, err
		}
		return nil, ac.service.SetRecipientList(r.Context(), caller, ids, amounts, req.MaxPeriods)
	})
}

func (ac *AdminController) SetValidatedRecipientList(w http.ResponseWriter, r *http.Request) {
	var req recipientListRequest
	ac.handle(w, r, &req, func(caller models.Address) (any, error) {
		ids, amounts, err := req.parse()
		if err != nil {
			return nil, err
		}
		return nil, ac.service.SetValidatedRecipientList(r.Context(), caller, ids, amounts, req.MaxPeriods)
	})
}

func (ac *AdminController) Pause(w http.ResponseWriter, r *http.Request) {
	ac.handle(w, r, nil, func(caller models.Address) (any, error) {
		return nil, ac.service.Pause(r.Context(), caller)
	})
}

func (ac *AdminController) Unpause(w http.ResponseWriter, r *http.Request) {
	ac.handle(w, r, nil, func(caller models.Address) (any, error) {
		return nil, ac.service.Unpause(r.Context(), caller)
	})
}

func (ac *AdminController) Sweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	ac.handle(w, r, &req, func(caller models.Address) (any, error) {
		to, err := parseAddress("to", req.To)
		if err != nil {
			return nil, err
		}
		asset, err := parseOptionalAddress("asset", req.Asset)
		if err != nil {
			return nil, err
		}
		swept, err := ac.service.Sweep(r.Context(), caller, asset, to)
		if err != nil {
			return nil, err
		}
		return map[string]string{"swept": swept.String()}, nil
	})
}

func (ac *AdminController) SetDistributorToOwner(w http.ResponseWriter, r *http.Request) {
	var req receiverRequest
	ac.handle(w, r, &req, func(caller models.Address) (any, error) {
		receiver, err := parseAddress("receiver", req.Receiver)
		if err != nil {
			return nil, err
		}
		asset, err := parseOptionalAddress("asset", req.Asset)
		if err != nil {
			return nil, err
		}
		return nil, ac.service.SetDistributorToOwner(r.Context(), caller, receiver, asset)
	})
}

func (ac *AdminController) ManualDeposit(w http.ResponseWriter, r *http.Request) {
	var req receiverRequest
	ac.handle(w, r, &req, func(caller models.Address) (any, error) {
		receiver, err := parseAddress("receiver", req.Receiver)
		if err != nil {
			return nil, err
		}
		asset, err := parseOptionalAddress("asset", req.Asset)
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount("amount", req.Amount)
		if err != nil {
			return nil, err
		}
		return nil, ac.service.ManualDeposit(r.Context(), caller, receiver, asset, amount)
	})
}

func (ac *AdminController) SetKeeperAddress(w http.ResponseWriter, r *http.Request) {
	var req keeperRequest
	ac.handle(w, r, &req, func(caller models.Address) (any, error) {
		keeper, err := parseAddress("keeper", req.Keeper)
		if err != nil {
			return nil, err
		}
		return nil, ac.service.SetKeeperAddress(caller, keeper)
	})
}

func (ac *AdminController) SetMinWaitPeriod(w http.ResponseWriter, r *http.Request) {
	var req minWaitRequest
	ac.handle(w, r, &req, func(caller models.Address) (any, error) {
		return nil, ac.service.SetMinWaitPeriod(caller, time.Duration(req.Seconds)*time.Second)
	})
}
