package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/history"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

func NewHistoryProvider(conf *structures.Config, logger Logger) (history.Recorder, error) {
	if conf.History.Path == "" {
		logger.Infof(TypeApp, "Injection history disabled")
		return history.NewNoopRecorder(), nil
	}
	if err := os.MkdirAll(filepath.Dir(conf.History.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	store, err := history.Open(conf.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", conf.History.Path, err)
	}
	logger.Infof(TypeApp, "Injection history stored in %s", conf.History.Path)
	return store, nil
}
