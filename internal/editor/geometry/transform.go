package geometry

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

// ============================================================
// Frame
// ============================================================

// Frame: локальная система координат на плоскости XZ: начало и поворот вокруг вертикали.
// Точка плоскости хранится как r2.Point{X: x, Y: z}.
type Frame struct {
	Origin   r2.Point
	Rotation s1.Angle
}

func NewFrame(x, z, rot float64) Frame {
	return Frame{Origin: r2.Point{X: x, Y: z}, Rotation: s1.Angle(rot) * s1.Radian}
}

// Rotate поворачивает вектор на угол a: (x cos − z sin, x sin + z cos).
func Rotate(p r2.Point, a s1.Angle) r2.Point {
	sin, cos := math.Sincos(a.Radians())
	return r2.Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// ToLocal переводит мировую точку в координаты кадра.
func (f Frame) ToLocal(world r2.Point) r2.Point {
	return Rotate(world.Sub(f.Origin), -f.Rotation)
}

// ToWorld обратна ToLocal.
func (f Frame) ToWorld(local r2.Point) r2.Point {
	return Rotate(local, f.Rotation).Add(f.Origin)
}

// Place поворачивает набор точек на угол a и сдвигает в center.
func Place(points []r2.Point, a s1.Angle, center r2.Point) []r2.Point {
	out := make([]r2.Point, len(points))
	for i, p := range points {
		out[i] = Rotate(p, a).Add(center)
	}
	return out
}
