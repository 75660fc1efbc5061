package store

import (
	"modulmate/internal/editor/geometry"
	"modulmate/internal/editor/models"
)

// ============================================================
// Selectors
// ============================================================
//
// Все селекторы возвращают копии: изменить состояние через них нельзя.

func (s *Store) Module(id string) (models.Module, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.moduleIndex(id); i >= 0 {
		return s.state.Modules[i].Clone(), true
	}
	return models.Module{}, false
}

func (s *Store) Prop(id string) (models.Prop, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.propIndex(id); i >= 0 {
		return s.state.Props[i].Clone(), true
	}
	return models.Prop{}, false
}

// ModuleElevation возвращает абсолютную отметку пола модуля.
func (s *Store) ModuleElevation(id string) (float64, bool) {
	m, ok := s.Module(id)
	if !ok {
		return 0, false
	}
	return m.Elevation(), true
}

// WallMat возвращает материал стены модуля или "open", если стены нет.
func (s *Store) WallMat(moduleID string, side models.WallSide) string {
	m, ok := s.Module(moduleID)
	if !ok {
		return models.MatOpen
	}
	wall, ok := m.Walls[side]
	if !ok {
		return models.MatOpen
	}
	return wall.Mat
}

// Opening находит проем на стене модуля (side задан) или на перегородке.
func (s *Store) Opening(targetID string, side models.WallSide, openingID string) (models.Opening, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openingLocked(targetID, side, openingID)
}

func (s *Store) Selection() *models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Selection == nil {
		return nil
	}
	sel := *s.state.Selection
	return &sel
}

func (s *Store) SelectedModule() (models.Module, bool) {
	sel := s.Selection()
	if sel == nil || sel.Type != models.SelectModule {
		return models.Module{}, false
	}
	return s.Module(sel.ID)
}

func (s *Store) SelectedProp() (models.Prop, bool) {
	sel := s.Selection()
	if sel == nil || sel.Type != models.SelectProp {
		return models.Prop{}, false
	}
	return s.Prop(sel.ID)
}

// SelectedWall возвращает выделенную стену модуля (выделение модуля со стороной).
func (s *Store) SelectedWall() (models.WallData, bool) {
	sel := s.Selection()
	if sel == nil || sel.Type != models.SelectModule || sel.Side == "" {
		return models.WallData{}, false
	}
	m, ok := s.Module(sel.ID)
	if !ok {
		return models.WallData{}, false
	}
	wall, ok := m.Walls[sel.Side]
	return wall, ok
}

// SelectedOpening разрешает выделение проема в сам проем.
func (s *Store) SelectedOpening() (models.Opening, bool) {
	sel := s.Selection()
	if sel == nil || sel.Type != models.SelectOpening || sel.SecondaryID == "" {
		return models.Opening{}, false
	}
	return s.Opening(sel.ID, sel.Side, sel.SecondaryID)
}

func (s *Store) ActiveTool() models.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveTool
}

func (s *Store) Environment() models.Environment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Environment
}

func (s *Store) ExportStep() models.ExportStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ExportStep
}

// Geometry пересчитывает геометрию сцены по текущему состоянию.
func (s *Store) Geometry() geometry.Scene {
	s.mu.Lock()
	current := s.snapshotLocked()
	smart := s.state.SmartRoof
	s.mu.Unlock()

	return geometry.Build(geometry.Input{Modules: current.Modules, Props: current.Props, SmartRoof: smart})
}
