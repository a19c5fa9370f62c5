package spawn

import (
	"context"
	"log/slog"

	"github.com/udisondev/spawnkit/internal/model"
)

// LivenessProbe answers whether a previously spawned instance still exists.
// The controller never dereferences handles; it only asks the host.
type LivenessProbe interface {
	IsAlive(h model.InstanceHandle) bool
	IsDestroying(h model.InstanceHandle) bool
}

// Host is the world that owns spawned instances.
type Host interface {
	LivenessProbe

	// SpawnInstance creates an instance of proto at the given placement.
	// Returns false when the host refuses (e.g. placement collision).
	SpawnInstance(proto model.PrototypeID, pos model.Location, rot model.Rotator) (model.InstanceHandle, bool)
}

// Effects receives fire-and-forget cues for a successful spawn.
// Errors are ignored by the controller.
type Effects interface {
	TriggerVisualEffect(effect string, pos model.Location, rot model.Rotator) error
	PlaySound(sound string, pos model.Location) error
}

// Severity of a diagnostic message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns severity name
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Level maps severity to slog level
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Diagnostics displays non-fatal configuration problems to the author.
type Diagnostics interface {
	Report(message string, severity Severity)
}

// LogDiagnostics reports diagnostics through slog.
// Nil Logger means slog.Default().
type LogDiagnostics struct {
	Logger *slog.Logger
}

// Report implements Diagnostics
func (d LogDiagnostics) Report(message string, severity Severity) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(context.Background(), severity.Level(), message, "source", "spawner", "severity", severity.String())
}

// Rand is the random source used by a controller.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// uniform returns a value in [lo, hi)
func uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
