package store

import (
	"math"

	"modulmate/internal/editor/models"
)

// ============================================================
// Selection commands
// ============================================================

// Select задает выделение; nil снимает его. Историю не трогает.
func (s *Store) Select(sel *models.Selection) {
	s.mutate("select", func() bool {
		if sel == nil {
			s.state.Selection = nil
			return true
		}
		copied := *sel
		s.state.Selection = &copied
		return true
	})
}

// RemoveSelection удаляет выделенный модуль, проп или проем одним снимком.
func (s *Store) RemoveSelection() bool {
	return s.mutate("remove_selection", func() bool {
		sel := s.state.Selection
		if sel == nil {
			return false
		}

		switch sel.Type {
		case models.SelectModule:
			i := s.moduleIndex(sel.ID)
			if i < 0 {
				return false
			}
			s.pushLocked()
			s.state.Modules = append(s.state.Modules[:i], s.state.Modules[i+1:]...)
		case models.SelectProp:
			i := s.propIndex(sel.ID)
			if i < 0 {
				return false
			}
			s.pushLocked()
			s.state.Props = append(s.state.Props[:i], s.state.Props[i+1:]...)
		case models.SelectOpening:
			if sel.SecondaryID == "" || !s.hasOpeningLocked(sel.ID, sel.Side, sel.SecondaryID) {
				return false
			}
			s.pushLocked()
			s.removeOpeningLocked(sel.ID, sel.Side, sel.SecondaryID)
		default:
			return false
		}

		s.state.Selection = nil
		return true
	})
}

func (s *Store) regenerateOpenings(w models.WallData) models.WallData {
	out := w.Clone()
	for i := range out.Openings {
		out.Openings[i].ID = s.newID()
	}
	return out
}

// DuplicateSelection копирует выделенный модуль (+2 м по x) или проп (+1 м по x и z)
// с новыми идентификаторами всех вложенных проемов и выделяет копию.
func (s *Store) DuplicateSelection() (string, bool) {
	var id string
	ok := s.mutate("duplicate_selection", func() bool {
		sel := s.state.Selection
		if sel == nil {
			return false
		}

		switch sel.Type {
		case models.SelectModule:
			i := s.moduleIndex(sel.ID)
			if i < 0 {
				return false
			}
			s.pushLocked()
			cp := s.state.Modules[i].Clone()
			cp.ID = s.newID()
			cp.Grid.X += 2
			for _, side := range models.Sides {
				if wall, ok := cp.Walls[side]; ok {
					cp.Walls[side] = s.regenerateOpenings(wall)
				}
			}
			s.state.Modules = append(s.state.Modules, cp)
			s.state.Selection = &models.Selection{Type: models.SelectModule, ID: cp.ID}
			id = cp.ID
		case models.SelectProp:
			i := s.propIndex(sel.ID)
			if i < 0 {
				return false
			}
			s.pushLocked()
			cp := s.state.Props[i].Clone()
			cp.ID = s.newID()
			cp.Pos[0]++
			cp.Pos[2]++
			if cp.WallData != nil {
				wall := s.regenerateOpenings(*cp.WallData)
				cp.WallData = &wall
			}
			s.state.Props = append(s.state.Props, cp)
			s.state.Selection = &models.Selection{Type: models.SelectProp, ID: cp.ID}
			id = cp.ID
		default:
			return false
		}
		return true
	})
	return id, ok
}

// RotateSelection поворачивает выделенный модуль или проп на 90°.
func (s *Store) RotateSelection() bool {
	return s.mutate("rotate_selection", func() bool {
		sel := s.state.Selection
		if sel == nil {
			return false
		}
		switch sel.Type {
		case models.SelectModule:
			i := s.moduleIndex(sel.ID)
			if i < 0 {
				return false
			}
			s.pushLocked()
			s.state.Modules[i].Grid.Rot += math.Pi / 2
		case models.SelectProp:
			i := s.propIndex(sel.ID)
			if i < 0 {
				return false
			}
			s.pushLocked()
			s.state.Props[i].Rot += math.Pi / 2
		default:
			return false
		}
		return true
	})
}

func (s *Store) SetHovered(id string) {
	s.mutate("set_hovered", func() bool {
		if s.state.HoveredID == id {
			return false
		}
		s.state.HoveredID = id
		return true
	})
}
