package geometry

import (
	"github.com/golang/geo/r2"

	"modulmate/internal/editor/models"
)

// ============================================================
// Scene derivation
// ============================================================

type Input struct {
	Modules   []models.Module
	Props     []models.Prop
	SmartRoof bool
}

type ModuleGeometry struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Level      int            `json:"level"`
	Elevation  float64        `json:"elevation"`
	Origin     r2.Point       `json:"origin"`
	Rotation   float64        `json:"rotation"`
	Floor      Solid          `json:"floor"`
	Walls      []WallGeometry `json:"walls"`
	Roof       *RoofGeometry  `json:"roof,omitempty"`
	StairHoles int            `json:"stairHoles"`
}

type Scene struct {
	Modules       []ModuleGeometry       `json:"modules"`
	InternalWalls []InternalWallGeometry `json:"internalWalls"`
	SmartRoof     *RoofGeometry          `json:"smartRoof,omitempty"`
}

// Build пересчитывает всю геометрию сцены. Функция чистая, кэша нет.
func Build(in Input) Scene {
	scene := Scene{
		Modules:       make([]ModuleGeometry, 0, len(in.Modules)),
		InternalWalls: []InternalWallGeometry{},
	}

	for _, m := range in.Modules {
		scene.Modules = append(scene.Modules, BuildModule(m, in.Props, in.SmartRoof))
	}

	for _, p := range in.Props {
		if p.Type == models.PropWallInternal {
			scene.InternalWalls = append(scene.InternalWalls, BuildInternalWall(p))
		}
	}

	if in.SmartRoof {
		scene.SmartRoof = SmartRoof(in.Modules)
	}
	return scene
}

// BuildModule строит перекрытие, стены и крышу одного модуля.
// При smartRoof собственная крыша подавляется.
func BuildModule(m models.Module, props []models.Prop, smartRoof bool) ModuleGeometry {
	floor := BuildFloor(m, props)
	g := ModuleGeometry{
		ID:         m.ID,
		Kind:       string(m.Kind),
		Level:      m.Level,
		Elevation:  m.Elevation(),
		Origin:     m.Grid.Origin(),
		Rotation:   m.Grid.Rot,
		Floor:      floor,
		Walls:      []WallGeometry{},
		StairHoles: len(floor.Profile.Holes),
	}

	if !m.IsTerrace() {
		for _, side := range models.Sides {
			g.Walls = append(g.Walls, BuildWall(m, side))
		}
	}
	if !smartRoof {
		g.Roof = ModuleRoof(m)
	}
	return g
}

// WorldFootprint возвращает контур модуля в мировых координатах плана.
func WorldFootprint(m models.Module) Path {
	local := RectPath(r2.RectFromPoints(
		r2.Point{X: -m.Size.W / 2, Y: -m.Size.D / 2},
		r2.Point{X: m.Size.W / 2, Y: m.Size.D / 2},
	))
	return NewFrame(m.Grid.X, m.Grid.Z, m.Grid.Rot).ToWorldPath(local)
}

// ToWorldPath переводит локальный контур в мировые координаты.
func (f Frame) ToWorldPath(local Path) Path {
	out := make(Path, len(local))
	for i, p := range local {
		out[i] = f.ToWorld(p)
	}
	return out
}
