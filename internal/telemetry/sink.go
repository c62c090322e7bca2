package telemetry

import (
	"context"

	"github.com/j-veylop/uranus/internal/models"
)

// Sink receives every record the store persisted. Sinks are best-effort:
// an error is logged and never reaches the caller of Record.
type Sink interface {
	Emit(ctx context.Context, rec models.TelemetryRecord) error
	Name() string
}
