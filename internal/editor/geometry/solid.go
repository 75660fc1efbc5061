package geometry

import (
	"github.com/golang/geo/r3"
)

// ============================================================
// Solids
// ============================================================

// Axis: ось выдавливания профиля.
type Axis string

const (
	// AxisZ: профиль в плоскости (x, y), выдавливание вдоль z (стены, фронтон).
	AxisZ Axis = "z"
	// AxisX: профиль в плоскости (z, y), выдавливание вдоль x (односкатная крыша).
	AxisX Axis = "x"
	// AxisY: профиль в плоскости (x, z), выдавливание вдоль y (перекрытия).
	AxisY Axis = "y"
)

// Solid: выдавленный профиль. Offset задает начало выдавливания вдоль Axis,
// Depth его длину. Координаты локальные для владельца (стены или модуля).
type Solid struct {
	Name     string    `json:"name"`
	Profile  *Profile  `json:"profile"`
	Axis     Axis      `json:"axis"`
	Offset   float64   `json:"offset"`
	Depth    float64   `json:"depth"`
	Material string    `json:"material,omitempty"`
	Position r3.Vector `json:"position"`
}

// Box: прямоугольный брус с центром Center.
type Box struct {
	Name     string    `json:"name"`
	Center   r3.Vector `json:"center"`
	Size     r3.Vector `json:"size"`
	Material string    `json:"material,omitempty"`
}

// Volume: объем выдавливания (площадь профиля на глубину).
func (s Solid) Volume() float64 {
	if s.Profile == nil {
		return 0
	}
	return s.Profile.NetArea() * s.Depth
}

func (b Box) Volume() float64 {
	return b.Size.X * b.Size.Y * b.Size.Z
}

// Vertices возвращает вершины тела в локальных координатах владельца.
func (s Solid) Vertices() []r3.Vector {
	if s.Profile == nil {
		return nil
	}
	lo, hi := s.Offset, s.Offset+s.Depth
	out := make([]r3.Vector, 0, 2*len(s.Profile.Outer))
	for _, p := range s.Profile.Outer {
		for _, d := range []float64{lo, hi} {
			var v r3.Vector
			switch s.Axis {
			case AxisX:
				v = r3.Vector{X: d, Y: p.Y, Z: p.X}
			case AxisY:
				v = r3.Vector{X: p.X, Y: d, Z: p.Y}
			default:
				v = r3.Vector{X: p.X, Y: p.Y, Z: d}
			}
			out = append(out, v.Add(s.Position))
		}
	}
	return out
}

// Vertices возвращает восемь углов бруса.
func (b Box) Vertices() []r3.Vector {
	half := b.Size.Mul(0.5)
	out := make([]r3.Vector, 0, 8)
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				out = append(out, b.Center.Add(r3.Vector{X: sx * half.X, Y: sy * half.Y, Z: sz * half.Z}))
			}
		}
	}
	return out
}
