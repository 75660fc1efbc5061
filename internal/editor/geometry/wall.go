package geometry

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"modulmate/internal/editor/models"
)

const (
	ColumnWidth     = 0.15 // ширина стальной стойки каркаса
	WallThickness   = 0.10
	FacadeThickness = 0.02
)

// ============================================================
// Wall profiles
// ============================================================

// OpeningRect возвращает прямоугольник проема в координатах стены:
// x от центра стены, y от пола.
func OpeningRect(width float64, op models.Opening) r2.Rect {
	cx := (op.X - 0.5) * width
	return r2.RectFromPoints(
		r2.Point{X: cx - op.W/2, Y: op.Y},
		r2.Point{X: cx + op.W/2, Y: op.Y + op.H},
	)
}

// WallProfile строит контур [-w/2+inset, w/2-inset]×[0,h] с отверстиями проемов.
func WallProfile(width, height, inset float64, openings []models.Opening) *Profile {
	p := RectProfile(-width/2+inset, 0, width/2-inset, height)
	for _, op := range openings {
		p.AddRectHole(OpeningRect(width, op))
	}
	return p
}

// CoreProfile: несущий слой, утоплен на ширину стойки с обеих сторон.
func CoreProfile(width, height float64, openings []models.Opening) *Profile {
	return WallProfile(width, height, ColumnWidth, openings)
}

// FacadeProfile: облицовка; при coverFrame закрывает стойки полностью.
func FacadeProfile(width, height float64, openings []models.Opening, coverFrame bool) *Profile {
	inset := ColumnWidth
	if coverFrame {
		inset = 0
	}
	return WallProfile(width, height, inset, openings)
}

// ============================================================
// Module walls
// ============================================================

// WallPlacement: положение стены в системе модуля.
type WallPlacement struct {
	Offset   r3.Vector `json:"offset"`
	Rotation float64   `json:"rotation"`
	Width    float64   `json:"width"`
}

// PlaceWall возвращает положение стороны side для модуля размера size.
func PlaceWall(size models.Size, side models.WallSide) WallPlacement {
	switch side {
	case models.SideSouth:
		return WallPlacement{Offset: r3.Vector{Z: size.D / 2}, Rotation: math.Pi, Width: size.W}
	case models.SideEast:
		return WallPlacement{Offset: r3.Vector{X: size.W / 2}, Rotation: -math.Pi / 2, Width: size.D}
	case models.SideWest:
		return WallPlacement{Offset: r3.Vector{X: -size.W / 2}, Rotation: math.Pi / 2, Width: size.D}
	default:
		return WallPlacement{Offset: r3.Vector{Z: -size.D / 2}, Rotation: 0, Width: size.W}
	}
}

// Frame переводит координаты стены (x вдоль стены, z вглубь модуля) в систему модуля.
// Rotation задана вокруг вертикали, поэтому в плане знак угла противоположный.
func (p WallPlacement) Frame() Frame {
	return NewFrame(p.Offset.X, p.Offset.Z, -p.Rotation)
}

type WallGeometry struct {
	Side       models.WallSide `json:"side"`
	Placement  WallPlacement   `json:"placement"`
	Height     float64         `json:"height"`
	Open       bool            `json:"open"`
	Structure  string          `json:"structure,omitempty"`
	Facade     *Solid          `json:"facade,omitempty"`
	Core       *Solid          `json:"core,omitempty"`
	Openings   int             `json:"openings"`
	CoverFrame bool            `json:"coverFrame"`
}

// BuildWall строит облицовку и несущий слой стены. Открытая стена не имеет тел.
func BuildWall(m models.Module, side models.WallSide) WallGeometry {
	data := m.Walls[side]
	placement := PlaceWall(m.Size, side)

	g := WallGeometry{
		Side:       side,
		Placement:  placement,
		Height:     m.Size.H,
		Open:       data.IsOpen() || data.Mat == "",
		Structure:  string(data.Structure),
		Openings:   len(data.Openings),
		CoverFrame: data.CoverFrame,
	}
	if g.Open {
		return g
	}

	g.Facade = &Solid{
		Name:     "facade",
		Profile:  FacadeProfile(placement.Width, m.Size.H, data.Openings, data.CoverFrame),
		Axis:     AxisZ,
		Depth:    FacadeThickness,
		Material: data.Mat,
	}
	g.Core = &Solid{
		Name:     "core",
		Profile:  CoreProfile(placement.Width, m.Size.H, data.Openings),
		Axis:     AxisZ,
		Offset:   FacadeThickness,
		Depth:    WallThickness,
		Material: "plaster_white",
	}
	return g
}

// ============================================================
// Internal walls
// ============================================================

const (
	InternalWallWidth  = 2.0
	InternalWallHeight = 2.8
	InternalWallDepth  = 0.1
)

type InternalWallGeometry struct {
	PropID   string    `json:"propId"`
	Position r3.Vector `json:"position"`
	Rotation float64   `json:"rotation"`
	Body     Solid     `json:"body"`
}

// BuildInternalWall строит перегородку по размеру пропа [w, h, d] с проемами из wallData.
func BuildInternalWall(p models.Prop) InternalWallGeometry {
	w, h, d := InternalWallWidth, InternalWallHeight, InternalWallDepth
	if p.Size != nil {
		w, h, d = p.Size[0], p.Size[1], p.Size[2]
	}

	var openings []models.Opening
	mat := "plaster_white"
	if p.WallData != nil {
		openings = p.WallData.Openings
		if p.WallData.Mat != "" {
			mat = p.WallData.Mat
		}
	}

	return InternalWallGeometry{
		PropID:   p.ID,
		Position: p.Position(),
		Rotation: p.Rot,
		Body: Solid{
			Name:     "internal_wall",
			Profile:  WallProfile(w, h, 0, openings),
			Axis:     AxisZ,
			Offset:   -d / 2,
			Depth:    d,
			Material: mat,
		},
	}
}
