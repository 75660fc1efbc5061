package store

import (
	"modulmate/internal/editor/models"
)

// ============================================================
// Props
// ============================================================

func (s *Store) addPropLocked(typ models.PropType, pos *[3]float64, rot float64) string {
	s.pushLocked()

	start := [3]float64{}
	switch {
	case pos != nil:
		start = *pos
	case s.state.Selection != nil && s.state.Selection.Type == models.SelectModule:
		// без явной позиции проп ставится в центр выделенного модуля на его отметке
		if i := s.moduleIndex(s.state.Selection.ID); i >= 0 {
			m := s.state.Modules[i]
			start = [3]float64{m.Grid.X, m.Elevation(), m.Grid.Z}
		}
	}

	p := models.Prop{
		ID:              s.newID(),
		Type:            typ,
		Pos:             start,
		Rot:             rot,
		CutoutModifiers: &models.CutoutModifiers{},
	}
	if size, ok := models.DefaultPropSize(typ); ok {
		p.Size = size
	}
	if typ == models.PropWallInternal {
		p.WallData = models.DefaultInternalWall()
	}

	s.state.Props = append(s.state.Props, p)
	s.state.Selection = &models.Selection{Type: models.SelectProp, ID: p.ID}
	s.state.ActiveTool = models.NoTool
	return p.ID
}

// AddProp добавляет проп с размерами по типу, выделяет его и сбрасывает инструмент.
func (s *Store) AddProp(typ models.PropType, pos *[3]float64, rot float64) string {
	var id string
	s.mutate("add_prop", func() bool {
		id = s.addPropLocked(typ, pos, rot)
		return true
	})
	return id
}

func (s *Store) updateProp(command, id string, fn func(p *models.Prop)) bool {
	return s.mutate(command, func() bool {
		i := s.propIndex(id)
		if i < 0 {
			return false
		}
		fn(&s.state.Props[i])
		return true
	})
}

// UpdatePropPosition: непрерывная правка; x и z округляются до 0.05 м.
func (s *Store) UpdatePropPosition(id string, pos [3]float64) bool {
	return s.updateProp("update_prop_position", id, func(p *models.Prop) {
		p.Pos = [3]float64{snap(pos[0], 20), pos[1], snap(pos[2], 20)}
	})
}

func (s *Store) UpdatePropRotation(id string, rot float64) bool {
	return s.updateProp("update_prop_rotation", id, func(p *models.Prop) {
		p.Rot = rot
	})
}

func (s *Store) UpdatePropSize(id string, size [3]float64) bool {
	return s.updateProp("update_prop_size", id, func(p *models.Prop) {
		p.Size = &size
	})
}

// UpdatePropCutout частично обновляет поправки выреза лестницы.
func (s *Store) UpdatePropCutout(id string, patch models.CutoutPatch) bool {
	return s.updateProp("update_prop_cutout", id, func(p *models.Prop) {
		mods := patch.Apply(p.Modifiers())
		p.CutoutModifiers = &mods
	})
}
