package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/services"
)

const defaultHistoryLimit = 100

// InjectorController serves the read side and the keeper endpoints.
type InjectorController struct {
	logger  providers.Logger
	service services.InjectorServiceInterface
	cache   providers.CacheProviderInterface
	auth    providers.AuthProviderInterface
}

func NewInjectorController(logger providers.Logger, service services.InjectorServiceInterface, cache providers.CacheProviderInterface, auth providers.AuthProviderInterface) *InjectorController {
	return &InjectorController{
		logger:  logger,
		service: service,
		cache:   cache,
		auth:    auth,
	}
}

type accountResponse struct {
	ID                     models.Address `json:"id"`
	IsActive               bool           `json:"is_active"`
	AmountPerPeriod        string         `json:"amount_per_period"`
	MaxPeriods             uint32         `json:"max_periods"`
	PeriodNumber           uint32         `json:"period_number"`
	LastInjectionTimestamp int64          `json:"last_injection_timestamp"`
}

type settingsResponse struct {
	Asset                models.Address `json:"asset"`
	Self                 models.Address `json:"self"`
	Owner                models.Address `json:"owner"`
	Keeper               models.Address `json:"keeper"`
	MinWaitPeriod        string         `json:"min_wait_period"`
	MinWaitPeriodSeconds int64          `json:"min_wait_period_seconds"`
	Paused               bool           `json:"paused"`
}

type upkeepCheckResponse struct {
	Needed  bool   `json:"needed"`
	Payload []byte `json:"payload"`
}

type upkeepPerformRequest struct {
	Payload []byte `json:"payload"`
}

// serveFromCacheOrCompute caches responses under a key bound to the current
// schedule version.
func (ic *InjectorController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, key string, compute func() (any, error)) {
	cacheKey := providers.VersionedKey(key, ic.service.Version())
	if data, ok := ic.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		writeError(w, ic.logger, r, err, nil)
		return
	}
	gson, err := marshal(result)
	if err != nil {
		writeError(w, ic.logger, r, err, nil)
		return
	}

	ic.cache.Set(cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
}

func (ic *InjectorController) GetWatchList(w http.ResponseWriter, r *http.Request) {
	ic.serveFromCacheOrCompute(w, r, "watchlist", func() (any, error) {
		return ic.service.GetWatchList(), nil
	})
}

func (ic *InjectorController) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseAddress("id", r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, ic.logger, r, err, nil)
		return
	}
	ic.serveFromCacheOrCompute(w, r, "account:"+id.String(), func() (any, error) {
		t := ic.service.GetAccountInfo(id)
		return accountResponse{
			ID:                     id,
			IsActive:               t.IsActive,
			AmountPerPeriod:        t.AmountPerPeriod.String(),
			MaxPeriods:             t.MaxPeriods,
			PeriodNumber:           t.PeriodNumber,
			LastInjectionTimestamp: t.LastInjectionTimestamp,
		}, nil
	})
}

func (ic *InjectorController) GetSettings(w http.ResponseWriter, r *http.Request) {
	ic.serveFromCacheOrCompute(w, r, "settings", func() (any, error) {
		s := ic.service.Settings()
		return settingsResponse{
			Asset:                s.Asset,
			Self:                 s.Self,
			Owner:                s.Owner,
			Keeper:               s.Keeper,
			MinWaitPeriod:        s.MinWaitPeriod.String(),
			MinWaitPeriodSeconds: int64(s.MinWaitPeriod.Seconds()),
			Paused:               s.Paused,
		}, nil
	})
}

// GetReady depends on the clock and on chain state, so it is never cached.
func (ic *InjectorController) GetReady(w http.ResponseWriter, r *http.Request) {
	ready, err := ic.service.GetReadyReceivers(r.Context())
	if err != nil {
		writeError(w, ic.logger, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, ready)
}

func (ic *InjectorController) GetBalancesMatch(w http.ResponseWriter, r *http.Request) {
	match, err := ic.service.CheckBalancesMatch(r.Context())
	if err != nil {
		writeError(w, ic.logger, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"match": match})
}

func (ic *InjectorController) CheckUpkeep(w http.ResponseWriter, r *http.Request) {
	needed, payload, err := ic.service.CheckUpkeep(r.Context(), []byte(r.URL.Query().Get("data")))
	if err != nil {
		writeError(w, ic.logger, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, upkeepCheckResponse{Needed: needed, Payload: payload})
}

func (ic *InjectorController) PerformUpkeep(w http.ResponseWriter, r *http.Request) {
	caller, err := ic.auth.Authenticate(r)
	if err != nil {
		writeError(w, ic.logger, r, err, nil)
		return
	}
	var req upkeepPerformRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, ic.logger, r, err, nil)
		return
	}

	report, err := ic.service.PerformUpkeep(r.Context(), caller, req.Payload)
	if err != nil {
		// A failed batch still reports what was injected before the failure.
		writeError(w, ic.logger, r, err, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (ic *InjectorController) GetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var receiver models.Address
	if raw := query.Get("id"); raw != "" {
		id, err := parseAddress("id", raw)
		if err != nil {
			writeError(w, ic.logger, r, err, nil)
			return
		}
		receiver = id
	}

	limit := defaultHistoryLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, ic.logger, r, fmt.Errorf("%w: limit must be a positive integer", models.ErrValidation), nil)
			return
		}
		limit = n
	}

	events, err := ic.service.History(r.Context(), receiver, limit)
	if err != nil {
		writeError(w, ic.logger, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
