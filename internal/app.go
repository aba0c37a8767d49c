package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/controllers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/history"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/persistence"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/persistence/interfaces"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer *http.Server
}

// newHandler mounts the API routes behind the metrics middleware. Health checks and
// the scrape endpoint stay outside it.
func newHandler(router providers.RouterProviderInterface, health *controllers.HealthController, metrics providers.MetricsProviderInterface, conf *structures.Config) http.Handler {
	api := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		api.Handle(route.Url, route.Handler)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", health.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, router, api))
	return mux
}

// NewApp restores the persisted schedule, serves HTTP until SIGINT or SIGTERM
// and persists again on the way out. A snapshot that cannot be read stops the
// start: serving an empty schedule would let the keeper skip paid periods.
func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, fileManager *persistence.FileManager, recorder history.Recorder, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := scheduler.Restore(); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      newHandler(router, healthController, metrics, conf),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: conf.Chain.Timeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", app.WebServer.Addr)
		if err := app.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if err := app.shutdown(scheduler, fileManager, recorder, logger); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return nil, runErr
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

// shutdown stops background jobs before draining HTTP so no upkeep starts
// after the final snapshot is written.
func (a *App) shutdown(scheduler interfaces.SchedulerInterface, fileManager *persistence.FileManager, recorder history.Recorder, logger providers.Logger) error {
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.WebServer.Shutdown(ctx); err != nil {
		logger.Errorf(providers.TypeApp, "HTTP shutdown: %s", err)
	}

	// In-flight requests may have changed the schedule, so persist after draining.
	err := scheduler.Persist()
	fileManager.Close()
	if cerr := recorder.Close(); cerr != nil {
		logger.Errorf(providers.TypeApp, "Closing history: %s", cerr)
	}
	return err
}
