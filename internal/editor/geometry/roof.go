package geometry

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"

	"modulmate/internal/editor/models"
)

const (
	DefaultOverhang   = 0.3
	DefaultGableAngle = 30.0
	DefaultPentAngle  = 15.0

	FlatSlabThickness = 0.2
	ParapetHeight     = 0.3
	ParapetThickness  = 0.05
	PentLowEdge       = 0.1
	FasciaHeight      = 0.25
	FasciaThickness   = 0.05
)

// ============================================================
// Roofs
// ============================================================

// Footprint: прямоугольное основание крыши в плане: центр (x, z), размеры и поворот.
type Footprint struct {
	Center   r2.Point `json:"center"`
	Width    float64  `json:"width"`
	Depth    float64  `json:"depth"`
	Rotation float64  `json:"rotation"`
}

// RoofGeometry: тела крыши в системе основания: начало в центре основания на высоте Base.
type RoofGeometry struct {
	Type      models.RoofType `json:"type"`
	Footprint Footprint       `json:"footprint"`
	Base      float64         `json:"base"`
	Width     float64         `json:"width"` // с учетом свеса
	Depth     float64         `json:"depth"`
	Ridge     float64         `json:"ridge"` // высота конька над основанием
	Solids    []Solid         `json:"solids"`
	Boxes     []Box           `json:"boxes"`
}

// RoofParams возвращает угол в градусах и свес с подстановкой значений по умолчанию.
// Нулевой угол трактуется как "не задан".
func RoofParams(r models.Roof) (float64, float64) {
	angle := r.Angle
	if angle == 0 {
		switch r.Type {
		case models.RoofPent:
			angle = DefaultPentAngle
		default:
			angle = DefaultGableAngle
		}
	}
	overhang := DefaultOverhang
	if r.Overhang != nil {
		overhang = *r.Overhang
	}
	return angle, overhang
}

// BuildRoof строит крышу над основанием fp на высоте base. Для none возвращает nil.
func BuildRoof(r models.Roof, fp Footprint, base float64) *RoofGeometry {
	if r.Type == models.RoofNone || r.Type == "" {
		return nil
	}

	angleDeg, overhang := RoofParams(r)
	tan := math.Tan((s1.Angle(angleDeg) * s1.Degree).Radians())
	rw := fp.Width + 2*overhang
	rd := fp.Depth + 2*overhang

	g := &RoofGeometry{
		Type:      r.Type,
		Footprint: fp,
		Base:      base,
		Width:     rw,
		Depth:     rd,
		Solids:    []Solid{},
		Boxes:     []Box{},
	}

	switch r.Type {
	case models.RoofFlat:
		g.Boxes = flatRoof(rw, rd)
		g.Ridge = FlatSlabThickness + ParapetHeight
	case models.RoofGable:
		hc := (rd / 2) * tan
		g.Solids = append(g.Solids, Solid{
			Name:     "gable",
			Profile:  NewProfile(Path{{X: -rw / 2, Y: 0}, {X: rw / 2, Y: 0}, {X: 0, Y: hc}}),
			Axis:     AxisZ,
			Offset:   -rd / 2,
			Depth:    rd,
			Material: "roof_tiles",
		})
		g.Ridge = hc
	case models.RoofPent:
		high := PentLowEdge + tan*rd
		g.Solids = append(g.Solids, Solid{
			Name: "pent",
			Profile: NewProfile(Path{
				{X: -rd / 2, Y: 0},
				{X: rd / 2, Y: 0},
				{X: rd / 2, Y: PentLowEdge},
				{X: -rd / 2, Y: high},
			}),
			Axis:     AxisX,
			Offset:   -rw / 2,
			Depth:    rw,
			Material: "roof_tiles",
		})
		g.Boxes = append(g.Boxes, Box{
			Name:     "fascia",
			Center:   r3.Vector{X: 0, Y: high - 0.1, Z: -rd / 2},
			Size:     r3.Vector{X: rw + 0.05, Y: FasciaHeight, Z: FasciaThickness},
			Material: "alu_anthracite",
		})
		g.Ridge = high
	default:
		return nil
	}
	return g
}

// flatRoof: плита и аттик по периметру.
func flatRoof(rw, rd float64) []Box {
	slabY := FlatSlabThickness / 2
	parapetY := FlatSlabThickness + ParapetHeight/2
	return []Box{
		{Name: "slab", Center: r3.Vector{Y: slabY}, Size: r3.Vector{X: rw, Y: FlatSlabThickness, Z: rd}, Material: "roof_tiles"},
		{Name: "parapet_south", Center: r3.Vector{Y: parapetY, Z: rd / 2}, Size: r3.Vector{X: rw, Y: ParapetHeight, Z: ParapetThickness}, Material: "alu_anthracite"},
		{Name: "parapet_north", Center: r3.Vector{Y: parapetY, Z: -rd / 2}, Size: r3.Vector{X: rw, Y: ParapetHeight, Z: ParapetThickness}, Material: "alu_anthracite"},
		{Name: "parapet_east", Center: r3.Vector{X: rw / 2, Y: parapetY}, Size: r3.Vector{X: ParapetThickness, Y: ParapetHeight, Z: rd}, Material: "alu_anthracite"},
		{Name: "parapet_west", Center: r3.Vector{X: -rw / 2, Y: parapetY}, Size: r3.Vector{X: ParapetThickness, Y: ParapetHeight, Z: rd}, Material: "alu_anthracite"},
	}
}

// ModuleRoof строит собственную крышу модуля. У террас крыши нет.
func ModuleRoof(m models.Module) *RoofGeometry {
	if m.IsTerrace() {
		return nil
	}
	fp := Footprint{Center: m.Grid.Origin(), Width: m.Size.W, Depth: m.Size.D, Rotation: m.Grid.Rot}
	return BuildRoof(m.Roof, fp, m.Elevation()+m.Size.H)
}

// ============================================================
// Smart roof
// ============================================================

// TopModules возвращает жилые модули максимального уровня в исходном порядке.
func TopModules(modules []models.Module) []models.Module {
	maxLevel := -1
	for _, m := range modules {
		if !m.IsTerrace() && m.Level > maxLevel {
			maxLevel = m.Level
		}
	}
	var out []models.Module
	for _, m := range modules {
		if !m.IsTerrace() && m.Level == maxLevel {
			out = append(out, m)
		}
	}
	return out
}

// SmartRoof строит единую крышу над габаритом всех модулей верхнего уровня.
// Параметры берутся у первого из них. Модули считаются выровненными по осям:
// поворот не учитывается при расчете габарита. Нулевой свес у единой крыши
// заменяется стандартным, в отличие от крыши отдельного модуля.
func SmartRoof(modules []models.Module) *RoofGeometry {
	top := TopModules(modules)
	if len(top) == 0 {
		return nil
	}

	bounds := r2.EmptyRect()
	for _, m := range top {
		half := r2.Point{X: m.Size.W / 2, Y: m.Size.D / 2}
		bounds = bounds.AddPoint(m.Grid.Origin().Sub(half))
		bounds = bounds.AddPoint(m.Grid.Origin().Add(half))
	}

	ref := top[0]
	size := bounds.Size()
	fp := Footprint{Center: bounds.Center(), Width: size.X, Depth: size.Y}
	roof := ref.Roof
	if roof.Overhang != nil && *roof.Overhang == 0 {
		roof.Overhang = nil
	}
	return BuildRoof(roof, fp, ref.Elevation()+ref.Size.H)
}
