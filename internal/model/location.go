package model

import "github.com/go-gl/mathgl/mgl64"

// Location — позиция в мировых координатах (X, Y, Z).
// Value type, передаётся по значению.
type Location = mgl64.Vec3

// Extent — half-extents объёма спавна по каждой оси (всегда >= 0).
type Extent = mgl64.Vec3

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y, z float64) Location {
	return Location{x, y, z}
}

// Rotator — ориентация в градусах (pitch вокруг Y, yaw вокруг Z, roll вокруг X).
type Rotator struct {
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Roll  float64 `yaml:"roll"`
}

// NewRotator создаёт Rotator из трёх углов в градусах.
func NewRotator(pitch, yaw, roll float64) Rotator {
	return Rotator{Pitch: pitch, Yaw: yaw, Roll: roll}
}

// WithYaw возвращает копию с новым yaw (immutable pattern).
func (r Rotator) WithYaw(yaw float64) Rotator {
	r.Yaw = yaw
	return r
}

// Transform — позиция + ориентация якоря спавнера или созданного объекта.
type Transform struct {
	Position Location `yaml:"position,flow"`
	Rotation Rotator  `yaml:"rotation"`
}

// NewTransform создаёт Transform.
func NewTransform(pos Location, rot Rotator) Transform {
	return Transform{Position: pos, Rotation: rot}
}

// DistanceSquared возвращает квадрат расстояния между двумя точками (без sqrt).
func DistanceSquared(a, b Location) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
