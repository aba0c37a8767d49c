package history

import (
	"context"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
)

// Recorder stores the injector's audit trail.
type Recorder interface {
	Record(ctx context.Context, event models.Event) error
	// List returns the most recent events first. An empty receiver lists all.
	List(ctx context.Context, receiver models.Address, limit int) ([]models.Event, error)
	Close() error
}

type noopRecorder struct{}

func (noopRecorder) Record(_ context.Context, _ models.Event) error { return nil }
func (noopRecorder) List(_ context.Context, _ models.Address, _ int) ([]models.Event, error) {
	return []models.Event{}, nil
}
func (noopRecorder) Close() error { return nil }

func NewNoopRecorder() Recorder {
	return noopRecorder{}
}
