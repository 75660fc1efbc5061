package geometry

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"

	"modulmate/internal/editor/models"
)

const (
	StairTolerance = 0.5  // допуск по высоте при поиске лестниц под перекрытием
	StairMargin    = 0.01 // отступ прямого выреза от габарита
	StairLRun      = 1.0
	StairURun      = 0.95
	StairUGap      = 0.1
	SpiralSegments = 48
	defaultStairW  = 1.0
	defaultStairD  = 2.0
)

// ============================================================
// Stair cutouts
// ============================================================

// StairsBelow выбирает лестницы, стоящие на уровне под перекрытием модуля.
// Порядок пропов сохраняется.
func StairsBelow(m models.Module, props []models.Prop) []models.Prop {
	base := float64(m.Level-1) * m.Size.H
	var out []models.Prop
	for _, p := range props {
		if !p.Type.IsStair() {
			continue
		}
		if math.Abs(p.Pos[1]-base) < StairTolerance {
			out = append(out, p)
		}
	}
	return out
}

// StairFootprint возвращает ширину и глубину выреза с учетом поправок.
func StairFootprint(p models.Prop) (float64, float64) {
	mods := p.Modifiers()
	sw, sd := defaultStairW, defaultStairD
	if p.Size != nil {
		sw, sd = p.Size[0], p.Size[2]
	}
	return sw + mods.OffsetW, sd + mods.OffsetD
}

// StairCutout строит контур отверстия под лестницу в локальной системе перекрытия floor.
func StairCutout(floor Frame, p models.Prop) Path {
	mods := p.Modifiers()
	sw, sd := StairFootprint(p)

	world := r2.Point{X: p.Pos[0] + mods.OffsetX, Y: p.Pos[2] + mods.OffsetZ}
	center := floor.ToLocal(world)
	rel := s1.Angle(p.Rot)*s1.Radian - floor.Rotation

	switch p.Type.StairKind() {
	case models.StairSpiral:
		return CirclePath(center, sw/2, SpiralSegments)
	case models.StairL:
		return Place(lShape(sw, sd, StairLRun+mods.OffsetW/2), rel, center)
	case models.StairU:
		return Place(uShape(sw, sd, StairURun+mods.OffsetW/2), rel, center)
	default:
		halfW := sw/2 - StairMargin
		halfD := sd/2 - StairMargin
		return Place([]r2.Point{
			{X: -halfW, Y: -halfD},
			{X: halfW, Y: -halfD},
			{X: halfW, Y: halfD},
			{X: -halfW, Y: halfD},
		}, rel, center)
	}
}

// lShape: два перпендикулярных марша с площадкой, run: ширина марша.
func lShape(sw, sd, run float64) []r2.Point {
	return []r2.Point{
		{X: -sw / 2, Y: -sd / 2},
		{X: -sw/2 + run, Y: -sd / 2},
		{X: -sw/2 + run, Y: sd/2 - run},
		{X: sw / 2, Y: sd/2 - run},
		{X: sw / 2, Y: sd / 2},
		{X: -sw / 2, Y: sd / 2},
	}
}

// uShape: два параллельных марша, соединенных площадкой у дальнего края.
func uShape(sw, sd, run float64) []r2.Point {
	return []r2.Point{
		{X: -sw/4 - StairUGap, Y: -sd / 2},
		{X: -sw/4 + run, Y: -sd / 2},
		{X: -sw/4 + run, Y: sd/2 - run},
		{X: sw/4 - run, Y: sd/2 - run},
		{X: sw/4 - run, Y: -sd / 2},
		{X: sw/4 + StairUGap, Y: -sd / 2},
		{X: sw/4 + StairUGap, Y: sd / 2},
		{X: -sw/4 - StairUGap, Y: sd / 2},
	}
}

// ============================================================
// Floors
// ============================================================

const FloorThickness = 0.1

// FloorProfile строит контур перекрытия модуля в его локальной системе (x, z).
// Отверстия под лестницы режутся только у жилых модулей выше первого уровня.
func FloorProfile(m models.Module, props []models.Prop) *Profile {
	p := RectProfile(-m.Size.W/2, -m.Size.D/2, m.Size.W/2, m.Size.D/2)
	if m.Level <= 0 || m.IsTerrace() {
		return p
	}

	frame := NewFrame(m.Grid.X, m.Grid.Z, m.Grid.Rot)
	for _, stair := range StairsBelow(m, props) {
		p.AddHole(StairCutout(frame, stair))
	}
	return p
}

// BuildFloor возвращает плиту перекрытия модуля.
func BuildFloor(m models.Module, props []models.Prop) Solid {
	mat := "floor_" + string(m.Floor)
	if m.IsTerrace() && m.Color != "" {
		mat = m.Color
	}
	return Solid{
		Name:     "floor",
		Profile:  FloorProfile(m, props),
		Axis:     AxisY,
		Offset:   0,
		Depth:    FloorThickness,
		Material: mat,
	}
}
