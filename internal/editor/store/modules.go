package store

import (
	"math"

	"modulmate/internal/editor/models"
)

// Параметры нового модуля.
var DefaultModuleSize = models.Size{W: 3.0, D: 6.0, H: 2.8}

const (
	TerraceHeight = 0.2
	TerraceColor  = "#8a6242"
	roofOverhang  = 0.3
)

// ============================================================
// Modules
// ============================================================

func newWalls() map[models.WallSide]models.WallData {
	walls := make(map[models.WallSide]models.WallData, len(models.Sides))
	for _, side := range models.Sides {
		walls[side] = models.WallData{
			Mat:       models.MatOpen,
			Structure: models.StructureSmooth,
			Openings:  []models.Opening{},
		}
	}
	return walls
}

func (s *Store) newModule(kind models.ModuleKind, x, z float64, dims models.Size) models.Module {
	overhang := roofOverhang
	m := models.Module{
		ID:    s.newID(),
		Kind:  kind,
		Level: 0,
		Size:  dims,
		Grid:  models.Grid{X: x, Z: z},
		Walls: newWalls(),
		Roof:  models.Roof{Type: models.RoofNone, Angle: 0, Overhang: &overhang},
		Floor: models.FloorWood,
	}
	if kind == models.KindTerrace {
		m.Size.H = TerraceHeight
		m.Floor = models.FloorDecking
		m.Color = TerraceColor
	}
	return m
}

func (s *Store) addModuleLocked(kind models.ModuleKind, x, z float64, dims models.Size) string {
	if kind == "" {
		kind = models.KindLiving
	}
	s.pushLocked()
	m := s.newModule(kind, x, z, dims)
	s.state.Modules = append(s.state.Modules, m)
	s.state.Selection = &models.Selection{Type: models.SelectModule, ID: m.ID}
	s.state.ActiveTool = models.NoTool
	return m.ID
}

// AddModule добавляет модуль с открытыми стенами и без крыши, выделяет его
// и сбрасывает инструмент. Всегда успешна.
func (s *Store) AddModule(kind models.ModuleKind, x, z float64, dims models.Size) string {
	var id string
	s.mutate("add_module", func() bool {
		id = s.addModuleLocked(kind, x, z, dims)
		return true
	})
	return id
}

// StartModulePlacement запоминает размеры и включает инструмент установки модуля.
func (s *Store) StartModulePlacement(w, d, h float64) {
	s.mutate("start_module_placement", func() bool {
		s.state.PendingDims = &models.Size{W: w, D: d, H: h}
		s.state.ActiveTool = models.PlaceModuleTool()
		s.state.Selection = nil
		return true
	})
}

func (s *Store) spawnModuleLocked(x, z float64, kind models.ModuleKind) string {
	dims := DefaultModuleSize
	if s.state.PendingDims != nil {
		dims = *s.state.PendingDims
	}
	return s.addModuleLocked(kind, x, z, dims)
}

// SpawnModule ставит модуль с отложенными размерами (или стандартными 3×6×2.8).
func (s *Store) SpawnModule(x, z float64, kind models.ModuleKind) string {
	var id string
	s.mutate("spawn_module", func() bool {
		id = s.spawnModuleLocked(x, z, kind)
		return true
	})
	return id
}

func (s *Store) StartLevelPlacement() {
	s.mutate("start_level_placement", func() bool {
		s.state.ActiveTool = models.PlaceLevelTool()
		s.state.Selection = nil
		return true
	})
}

func (s *Store) spawnLevelLocked(targetID string) (string, bool) {
	i := s.moduleIndex(targetID)
	if i < 0 || s.state.Modules[i].IsTerrace() {
		return "", false
	}
	s.pushLocked()

	overhang := roofOverhang
	upper := s.state.Modules[i].Clone()
	upper.ID = s.newID()
	upper.Level++
	upper.Roof = models.Roof{Type: models.RoofNone, Angle: 0, Overhang: &overhang}

	// нижний модуль больше не верхний: крыша снимается всегда
	s.state.Modules[i].Roof = models.Roof{Type: models.RoofNone, Angle: 0}
	s.state.Modules = append(s.state.Modules, upper)
	s.state.ActiveTool = models.NoTool
	return upper.ID, true
}

// SpawnLevelOnTop надстраивает копию модуля уровнем выше. Для террас и
// несуществующих модулей ничего не делает.
func (s *Store) SpawnLevelOnTop(targetID string) (string, bool) {
	var id string
	var ok bool
	s.mutate("spawn_level", func() bool {
		id, ok = s.spawnLevelLocked(targetID)
		return ok
	})
	return id, ok
}

// updateModule применяет fn к модулю id. pushHistory задает, пишется ли снимок.
func (s *Store) updateModule(command, id string, pushHistory bool, fn func(m *models.Module)) bool {
	return s.mutate(command, func() bool {
		i := s.moduleIndex(id)
		if i < 0 {
			return false
		}
		if pushHistory {
			s.pushLocked()
		}
		fn(&s.state.Modules[i])
		return true
	})
}

// snap округляет v до сетки с шагом 1/perMeter.
func snap(v, perMeter float64) float64 {
	return math.Round(v*perMeter) / perMeter
}

// UpdateModulePosition: непрерывная правка, снимок не пишется. Шаг сетки 0.1 м.
func (s *Store) UpdateModulePosition(id string, x, z float64) bool {
	return s.updateModule("update_module_position", id, false, func(m *models.Module) {
		m.Grid.X = snap(x, 10)
		m.Grid.Z = snap(z, 10)
	})
}

// UpdateModuleRotation: непрерывная правка, снимок не пишется.
func (s *Store) UpdateModuleRotation(id string, rot float64) bool {
	return s.updateModule("update_module_rotation", id, false, func(m *models.Module) {
		m.Grid.Rot = rot
	})
}

func (s *Store) UpdateModuleSize(id string, w, d float64) bool {
	return s.updateModule("update_module_size", id, true, func(m *models.Module) {
		m.Size.W = w
		m.Size.D = d
	})
}

func (s *Store) SetModuleColor(id, color string) bool {
	return s.updateModule("set_module_color", id, true, func(m *models.Module) {
		m.Color = color
	})
}

// Axis: ось сдвига модуля в плане.
type Axis string

const (
	AxisX Axis = "x"
	AxisZ Axis = "z"
)

func (s *Store) MoveModule(id string, axis Axis, delta float64) bool {
	if axis != AxisX && axis != AxisZ {
		return false
	}
	return s.updateModule("move_module", id, true, func(m *models.Module) {
		if axis == AxisX {
			m.Grid.X += delta
		} else {
			m.Grid.Z += delta
		}
	})
}

// SetRoof меняет тип крыши. nil-параметры сохраняют текущие угол и свес
// (нулевой или отсутствующий свес заменяется на 0.3).
func (s *Store) SetRoof(id string, typ models.RoofType, angle, overhang *float64) bool {
	return s.updateModule("set_roof", id, true, func(m *models.Module) {
		roof := models.Roof{Type: typ, Angle: m.Roof.Angle}
		if angle != nil {
			roof.Angle = *angle
		}
		oh := roofOverhang
		switch {
		case overhang != nil:
			oh = *overhang
		case m.Roof.Overhang != nil && *m.Roof.Overhang != 0:
			oh = *m.Roof.Overhang
		}
		roof.Overhang = &oh
		m.Roof = roof
	})
}

func (s *Store) SetFloor(id string, floor models.FloorType) bool {
	return s.updateModule("set_floor", id, true, func(m *models.Module) {
		m.Floor = floor
	})
}

// SetAllRoofs меняет тип крыши у всех модулей одним снимком.
func (s *Store) SetAllRoofs(typ models.RoofType) bool {
	return s.mutate("set_all_roofs", func() bool {
		if len(s.state.Modules) == 0 {
			return false
		}
		s.pushLocked()
		for i := range s.state.Modules {
			s.state.Modules[i].Roof.Type = typ
		}
		return true
	})
}

// ClearAll удаляет все модули и пропы. Отменяется через Undo.
func (s *Store) ClearAll() {
	s.mutate("clear_all", func() bool {
		s.pushLocked()
		s.state.Modules = []models.Module{}
		s.state.Props = []models.Prop{}
		s.state.Selection = nil
		return true
	})
}
