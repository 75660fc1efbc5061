package store

import (
	"github.com/golang/geo/r3"

	"modulmate/internal/editor/models"
)

// Высота подоконника при установке проема кликом.
const (
	ClickDoorSill   = 0.05
	ClickWindowSill = 1.0
)

// ============================================================
// Tools
// ============================================================

// SetActiveTool переключает инструмент и снимает выделение.
// Любой инструмент кроме измерения сбрасывает измерение.
func (s *Store) SetActiveTool(tool models.Tool) {
	s.mutate("set_active_tool", func() bool {
		if tool.Kind != models.ToolMeasure {
			s.state.Measure = models.MeasureState{}
		}
		s.state.ActiveTool = tool
		s.state.Selection = nil
		return true
	})
}

// ============================================================
// Click dispatch
// ============================================================

// ClickWall интерпретирует клик по стене модуля. relX: доля ширины стены (0..1).
// Одноразовый инструмент после успешного клика сбрасывается.
func (s *Store) ClickWall(moduleID string, side models.WallSide, relX float64) bool {
	return s.mutate("click_wall", func() bool {
		tool := s.state.ActiveTool
		if !s.applyWallClick(tool, moduleID, side, relX) {
			return false
		}
		if !tool.Persistent() {
			s.state.ActiveTool = models.NoTool
		}
		return true
	})
}

// clickOpeningLocked ставит проем инструментом: двери у пола, окна на высоте 1 м.
func (s *Store) clickOpeningLocked(targetID string, side models.WallSide, typ models.OpeningType, relX float64) bool {
	sill := ClickWindowSill
	if typ.IsDoor() {
		sill = ClickDoorSill
	}
	_, ok := s.addOpeningLocked(targetID, side, typ, &relX, &sill)
	return ok
}

func (s *Store) applyWallClick(tool models.Tool, moduleID string, side models.WallSide, relX float64) bool {
	switch tool.Kind {
	case models.ToolPlaceLevel:
		_, ok := s.spawnLevelLocked(moduleID)
		return ok
	case models.ToolPaint:
		return s.editWallLocked(moduleID, side, func(w *models.WallData) { setMaterial(w, tool.Value) })
	case models.ToolStructure:
		return s.editWallLocked(moduleID, side, func(w *models.WallData) { w.Structure = tool.Structure() })
	case models.ToolCoverFrame:
		return s.editWallLocked(moduleID, side, func(w *models.WallData) { w.CoverFrame = !w.CoverFrame })
	case models.ToolOpening:
		return s.clickOpeningLocked(moduleID, side, tool.OpeningType(), relX)
	case models.ToolNone:
		if s.moduleIndex(moduleID) < 0 {
			return false
		}
		s.state.Selection = &models.Selection{Type: models.SelectModule, ID: moduleID, Side: side}
		return true
	case models.ToolPlaceModule, models.ToolProp, models.ToolMeasure:
		return false
	}
	return false
}

// ClickInternalWall интерпретирует клик по перегородке-пропу: с инструментом
// проема ставит проем в точку relX, иначе выделяет перегородку.
func (s *Store) ClickInternalWall(propID string, relX float64) bool {
	return s.mutate("click_internal_wall", func() bool {
		i := s.propIndex(propID)
		if i < 0 || s.state.Props[i].WallData == nil {
			return false
		}
		if tool := s.state.ActiveTool; tool.Kind == models.ToolOpening {
			return s.clickOpeningLocked(propID, "", tool.OpeningType(), relX)
		}
		s.state.Selection = &models.Selection{Type: models.SelectProp, ID: propID}
		return true
	})
}

// ClickFloor интерпретирует клик по полу модуля в мировой точке point.
func (s *Store) ClickFloor(moduleID string, point [3]float64) bool {
	return s.mutate("click_floor", func() bool {
		tool := s.state.ActiveTool

		switch tool.Kind {
		case models.ToolPlaceLevel:
			_, ok := s.spawnLevelLocked(moduleID)
			return ok
		case models.ToolProp:
			s.addPropLocked(tool.PropType(), &point, 0)
			return true
		case models.ToolNone:
			if s.moduleIndex(moduleID) < 0 {
				return false
			}
			s.state.Selection = &models.Selection{Type: models.SelectModule, ID: moduleID}
			return true
		case models.ToolPlaceModule, models.ToolPaint, models.ToolStructure,
			models.ToolCoverFrame, models.ToolOpening, models.ToolMeasure:
			return false
		}
		return false
	})
}

// ClickGround интерпретирует клик по земле: установка модуля, измерение или снятие выделения.
func (s *Store) ClickGround(x, z float64, kind models.ModuleKind) bool {
	return s.mutate("click_ground", func() bool {
		switch s.state.ActiveTool.Kind {
		case models.ToolPlaceModule:
			s.spawnModuleLocked(x, z, kind)
			return true
		case models.ToolMeasure:
			p := [3]float64{x, 0, z}
			m := &s.state.Measure
			if m.Start == nil || m.End != nil {
				m.Start, m.End = &p, nil
			} else {
				m.End = &p
			}
			return true
		case models.ToolNone:
			if s.state.Selection == nil {
				return false
			}
			s.state.Selection = nil
			return true
		case models.ToolPlaceLevel, models.ToolPaint, models.ToolStructure,
			models.ToolCoverFrame, models.ToolOpening, models.ToolProp:
			return false
		}
		return false
	})
}

// ============================================================
// Measure
// ============================================================

// SetMeasureActive включает или выключает измерение; точки сбрасываются.
func (s *Store) SetMeasureActive(active bool) {
	s.mutate("set_measure_active", func() bool {
		s.state.Measure = models.MeasureState{Active: active}
		s.state.ActiveTool = models.NoTool
		if active {
			s.state.ActiveTool = models.MeasureTool()
		}
		s.state.Selection = nil
		return true
	})
}

// SetMeasurePoint задает начальную или конечную точку измерения; nil очищает ее.
func (s *Store) SetMeasurePoint(point *[3]float64, isStart bool) {
	s.mutate("set_measure_point", func() bool {
		var p *[3]float64
		if point != nil {
			v := *point
			p = &v
		}
		if isStart {
			s.state.Measure.Start = p
		} else {
			s.state.Measure.End = p
		}
		return true
	})
}

// MeasuredDistance возвращает расстояние между точками измерения.
func (s *Store) MeasuredDistance() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.state.Measure
	if m.Start == nil || m.End == nil {
		return 0, false
	}
	a := r3.Vector{X: m.Start[0], Y: m.Start[1], Z: m.Start[2]}
	b := r3.Vector{X: m.End[0], Y: m.End[1], Z: m.End[2]}
	return a.Sub(b).Norm(), true
}
