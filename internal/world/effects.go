package world

import (
	"log/slog"

	"github.com/udisondev/spawnkit/internal/model"
)

// EffectLog logs spawn cues instead of rendering or playing them.
// Nil Logger means slog.Default().
type EffectLog struct {
	Logger *slog.Logger
}

// TriggerVisualEffect implements spawn.Effects
func (e EffectLog) TriggerVisualEffect(effect string, pos model.Location, rot model.Rotator) error {
	e.logger().Info("visual effect", "effect", effect, "position", pos, "yaw", rot.Yaw)
	return nil
}

// PlaySound implements spawn.Effects
func (e EffectLog) PlaySound(sound string, pos model.Location) error {
	e.logger().Info("sound", "sound", sound, "position", pos)
	return nil
}

func (e EffectLog) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
