package store

import (
	"modulmate/internal/editor/models"
)

// ============================================================
// Drag
// ============================================================
//
// Перетаскивание пишет один снимок при старте, кадры перетаскивания историю не трогают.
// Одновременно тянется только одна сущность; повторный StartDrag без EndDrag
// не проверяется, за это отвечает UI.

// StartDrag захватывает сущность id. offset: смещение точки захвата от ее центра.
func (s *Store) StartDrag(id string, kind models.DragKind, offset [2]float64) bool {
	return s.mutate("start_drag", func() bool {
		switch kind {
		case models.DragModule:
			if s.moduleIndex(id) < 0 {
				return false
			}
		case models.DragProp:
			if s.propIndex(id) < 0 {
				return false
			}
		default:
			return false
		}
		s.pushLocked()
		s.state.Drag = models.DragState{Active: true, ID: id, Kind: kind, Offset: offset}
		return true
	})
}

// UpdateDrag переносит захваченную сущность в точку (x, z) с шагом 0.05 м.
func (s *Store) UpdateDrag(x, z float64) bool {
	return s.mutate("update_drag", func() bool {
		d := s.state.Drag
		if !d.Active || d.ID == "" {
			return false
		}
		sx := snap(x-d.Offset[0], 20)
		sz := snap(z-d.Offset[1], 20)

		switch d.Kind {
		case models.DragModule:
			i := s.moduleIndex(d.ID)
			if i < 0 {
				return false
			}
			s.state.Modules[i].Grid.X = sx
			s.state.Modules[i].Grid.Z = sz
		case models.DragProp:
			i := s.propIndex(d.ID)
			if i < 0 {
				return false
			}
			s.state.Props[i].Pos[0] = sx
			s.state.Props[i].Pos[2] = sz
		default:
			return false
		}
		return true
	})
}

func (s *Store) EndDrag() {
	s.mutate("end_drag", func() bool {
		if !s.state.Drag.Active {
			return false
		}
		s.state.Drag = models.DragState{}
		return true
	})
}
