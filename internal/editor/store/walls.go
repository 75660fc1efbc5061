package store

import (
	"modulmate/internal/editor/models"
)

// ============================================================
// Walls
// ============================================================
//
// Цель адресуется парой (id, side): при непустой стороне это стена модуля,
// при пустой: перегородка-проп с wallData.

// editWallLocked находит стену, пишет снимок и применяет fn.
func (s *Store) editWallLocked(id string, side models.WallSide, fn func(w *models.WallData)) bool {
	ref, ok := s.findWall(id, side)
	if !ok {
		return false
	}
	s.pushLocked()
	wall := ref.data.Clone()
	fn(&wall)
	ref.set(wall)
	return true
}

func (s *Store) updateWall(command, id string, side models.WallSide, fn func(w *models.WallData)) bool {
	return s.mutate(command, func() bool {
		return s.editWallLocked(id, side, fn)
	})
}

func setMaterial(w *models.WallData, mat string) {
	w.Mat = mat
	if mat == models.MatOpen {
		w.Openings = []models.Opening{}
	}
}

// SetWallMaterial задает материал стены. Материал "open" убирает стену вместе с проемами.
func (s *Store) SetWallMaterial(id string, side models.WallSide, mat string) bool {
	return s.updateWall("set_wall_material", id, side, func(w *models.WallData) {
		setMaterial(w, mat)
	})
}

func (s *Store) SetWallStructure(id string, side models.WallSide, structure models.WallStructure) bool {
	return s.updateWall("set_wall_structure", id, side, func(w *models.WallData) {
		w.Structure = structure
	})
}

func (s *Store) SetWallCoverFrame(id string, side models.WallSide, active bool) bool {
	return s.updateWall("set_wall_cover_frame", id, side, func(w *models.WallData) {
		w.CoverFrame = active
	})
}

// ============================================================
// Openings
// ============================================================

func (s *Store) addOpeningLocked(targetID string, side models.WallSide, typ models.OpeningType, x, y *float64) (string, bool) {
	ref, ok := s.findWall(targetID, side)
	if !ok {
		return "", false
	}
	s.pushLocked()

	w, h, sill := typ.Defaults()
	op := models.Opening{
		ID:         s.newID(),
		Type:       typ,
		X:          0.5,
		Y:          sill,
		W:          w,
		H:          h,
		FrameColor: models.DefaultFrameColor,
		GlassType:  models.DefaultGlassType,
	}
	if x != nil {
		op.X = *x
	}
	if y != nil {
		op.Y = *y
	}

	wall := ref.data.Clone()
	wall.Openings = append(wall.Openings, op)
	ref.set(wall)

	s.state.Selection = &models.Selection{
		Type:        models.SelectOpening,
		ID:          targetID,
		Side:        side,
		SecondaryID: op.ID,
	}
	s.state.ActiveTool = models.NoTool
	return op.ID, true
}

// AddOpening добавляет проем с размерами по типу, выделяет его и сбрасывает инструмент.
// x и y необязательны: по умолчанию центр стены и типовая высота подоконника.
func (s *Store) AddOpening(targetID string, side models.WallSide, typ models.OpeningType, x, y *float64) (string, bool) {
	var id string
	var ok bool
	s.mutate("add_opening", func() bool {
		id, ok = s.addOpeningLocked(targetID, side, typ, x, y)
		return ok
	})
	return id, ok
}

// removeOpeningLocked удаляет проем без записи снимка.
func (s *Store) removeOpeningLocked(targetID string, side models.WallSide, openingID string) bool {
	ref, ok := s.findWall(targetID, side)
	if !ok {
		return false
	}
	wall := ref.data.Clone()
	kept := wall.Openings[:0]
	for _, op := range wall.Openings {
		if op.ID != openingID {
			kept = append(kept, op)
		}
	}
	if len(kept) == len(wall.Openings) {
		return false
	}
	wall.Openings = kept
	ref.set(wall)
	return true
}

func (s *Store) hasOpeningLocked(targetID string, side models.WallSide, openingID string) bool {
	_, ok := s.openingLocked(targetID, side, openingID)
	return ok
}

func (s *Store) RemoveOpening(targetID string, side models.WallSide, openingID string) bool {
	return s.mutate("remove_opening", func() bool {
		if !s.hasOpeningLocked(targetID, side, openingID) {
			return false
		}
		s.pushLocked()
		return s.removeOpeningLocked(targetID, side, openingID)
	})
}

// UpdateOpening применяет частичное обновление к проему.
func (s *Store) UpdateOpening(targetID string, side models.WallSide, openingID string, patch models.OpeningPatch) bool {
	return s.mutate("update_opening", func() bool {
		ref, ok := s.findWall(targetID, side)
		if !ok || !s.hasOpeningLocked(targetID, side, openingID) {
			return false
		}
		s.pushLocked()
		wall := ref.data.Clone()
		for i, op := range wall.Openings {
			if op.ID == openingID {
				wall.Openings[i] = patch.Apply(op)
			}
		}
		ref.set(wall)
		return true
	})
}

func (s *Store) openingLocked(targetID string, side models.WallSide, openingID string) (models.Opening, bool) {
	ref, ok := s.findWall(targetID, side)
	if !ok {
		return models.Opening{}, false
	}
	for _, op := range ref.data.Openings {
		if op.ID == openingID {
			return op, true
		}
	}
	return models.Opening{}, false
}
