package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modulmate/internal/editor/models"
)

func newTestStore(opts ...Option) *Store {
	n := 0
	gen := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return New(append([]Option{WithIDGenerator(gen)}, opts...)...)
}

func assertSnapshot(t *testing.T, want, got Snapshot) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_UndoRedoRoundTrip(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	before := s.Snapshot()

	require.True(t, s.SetWallMaterial(id, models.SideNorth, "#334155"))
	after := s.Snapshot()

	require.True(t, s.Undo())
	assertSnapshot(t, before, s.Snapshot())

	require.True(t, s.Redo())
	assertSnapshot(t, after, s.Snapshot())
}

func TestStore_HistoryBound(t *testing.T) {
	s := newTestStore()
	for i := 0; i < MaxHistory+10; i++ {
		s.AddModule(models.KindLiving, float64(i), 0, DefaultModuleSize)
	}

	undos := 0
	for s.Undo() {
		undos++
	}
	assert.Equal(t, MaxHistory, undos)
	assert.Len(t, s.Snapshot().Modules, 10)
	assert.False(t, s.State().CanUndo)
}

func TestStore_NotFoundIsNoop(t *testing.T) {
	s := newTestStore()
	s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	depth := s.State().HistoryDepth

	assert.False(t, s.SetWallMaterial("missing", models.SideNorth, "#fff"))
	assert.False(t, s.UpdateModuleSize("missing", 4, 4))
	assert.False(t, s.RemoveOpening("missing", models.SideNorth, "op"))
	_, ok := s.SpawnLevelOnTop("missing")
	assert.False(t, ok)
	_, ok = s.AddOpening("missing", models.SideEast, models.WindowStd, nil, nil)
	assert.False(t, ok)

	assert.Equal(t, depth, s.State().HistoryDepth)
}

func TestStore_OpenWallClearsOpenings(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	require.True(t, s.SetWallMaterial(id, models.SideNorth, "#ffffff"))
	_, ok := s.AddOpening(id, models.SideNorth, models.WindowStd, nil, nil)
	require.True(t, ok)

	require.True(t, s.SetWallMaterial(id, models.SideNorth, models.MatOpen))

	m, _ := s.Module(id)
	assert.Equal(t, models.MatOpen, m.Walls[models.SideNorth].Mat)
	assert.Empty(t, m.Walls[models.SideNorth].Openings)
}

func TestStore_OpeningDefaults(t *testing.T) {
	tests := []struct {
		typ     models.OpeningType
		w, h, y float64
	}{
		{models.DoorExterior, 0.9, 2.1, 0.05},
		{models.WindowPano, 2.0, 1.5, 0.8},
		{models.WindowStd, 1.0, 1.2, 0.9},
		{models.DoorSliding, 2.0, 2.1, 0.05},
		{models.WallGlass, 2.8, 2.4, 0.15},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			s := newTestStore()
			id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
			opID, ok := s.AddOpening(id, models.SideSouth, tt.typ, nil, nil)
			require.True(t, ok)

			op, ok := s.Opening(id, models.SideSouth, opID)
			require.True(t, ok)
			assert.Equal(t, 0.5, op.X)
			assert.Equal(t, tt.y, op.Y)
			assert.Equal(t, tt.w, op.W)
			assert.Equal(t, tt.h, op.H)
			assert.Equal(t, models.DefaultFrameColor, op.FrameColor)
			assert.Equal(t, models.DefaultGlassType, op.GlassType)

			sel := s.Selection()
			require.NotNil(t, sel)
			assert.Equal(t, models.SelectOpening, sel.Type)
			assert.Equal(t, opID, sel.SecondaryID)
			assert.True(t, s.ActiveTool().IsNone())
		})
	}
}

func TestStore_UpdateOpening(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	opID, _ := s.AddOpening(id, models.SideEast, models.WindowStd, nil, nil)

	w := 1.4
	color := "white"
	require.True(t, s.UpdateOpening(id, models.SideEast, opID, models.OpeningPatch{W: &w, FrameColor: &color}))

	op, _ := s.Opening(id, models.SideEast, opID)
	assert.Equal(t, 1.4, op.W)
	assert.Equal(t, "white", op.FrameColor)
	assert.Equal(t, 1.2, op.H)

	assert.False(t, s.UpdateOpening(id, models.SideEast, "missing", models.OpeningPatch{W: &w}))
}

func TestStore_DuplicateModule(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 1, 0, DefaultModuleSize)
	s.AddOpening(id, models.SideNorth, models.WindowStd, nil, nil)
	s.AddOpening(id, models.SideWest, models.DoorExterior, nil, nil)
	s.Select(&models.Selection{Type: models.SelectModule, ID: id})

	copyID, ok := s.DuplicateSelection()
	require.True(t, ok)
	assert.NotEqual(t, id, copyID)

	orig, _ := s.Module(id)
	cp, _ := s.Module(copyID)
	assert.Equal(t, orig.Grid.X+2, cp.Grid.X)
	assert.Equal(t, orig.Grid.Z, cp.Grid.Z)

	seen := map[string]bool{}
	for _, m := range s.Snapshot().Modules {
		for _, wall := range m.Walls {
			for _, op := range wall.Openings {
				assert.False(t, seen[op.ID], "duplicate opening id %s", op.ID)
				seen[op.ID] = true
			}
		}
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, copyID, s.Selection().ID)
}

func TestStore_DuplicateProp(t *testing.T) {
	s := newTestStore()
	pos := [3]float64{1, 0, 1}
	id := s.AddProp(models.PropWallInternal, &pos, 0)
	s.AddOpening(id, "", models.DoorInterior, nil, nil)
	s.Select(&models.Selection{Type: models.SelectProp, ID: id})

	copyID, ok := s.DuplicateSelection()
	require.True(t, ok)

	orig, _ := s.Prop(id)
	cp, _ := s.Prop(copyID)
	assert.Equal(t, [3]float64{2, 0, 2}, cp.Pos)
	require.NotNil(t, cp.WallData)
	require.Len(t, cp.WallData.Openings, 1)
	assert.NotEqual(t, orig.WallData.Openings[0].ID, cp.WallData.Openings[0].ID)
}

func TestStore_SpawnLevelOnTop(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	require.True(t, s.SetRoof(id, models.RoofGable, nil, nil))

	upperID, ok := s.SpawnLevelOnTop(id)
	require.True(t, ok)

	lower, _ := s.Module(id)
	upper, _ := s.Module(upperID)
	assert.Equal(t, models.RoofNone, lower.Roof.Type)
	assert.Equal(t, 0.0, lower.Roof.Angle)

	assert.Equal(t, 1, upper.Level)
	assert.Equal(t, models.RoofNone, upper.Roof.Type)
	require.NotNil(t, upper.Roof.Overhang)
	assert.Equal(t, 0.3, *upper.Roof.Overhang)
	assert.InDelta(t, 2.8, upper.Elevation(), 1e-9)

	elev, ok := s.ModuleElevation(upperID)
	require.True(t, ok)
	assert.InDelta(t, 2.8, elev, 1e-9)
	_, ok = s.ModuleElevation("missing")
	assert.False(t, ok)

	t.Run("terrace is rejected", func(t *testing.T) {
		terrace := s.AddModule(models.KindTerrace, 5, 0, DefaultModuleSize)
		depth := s.State().HistoryDepth
		_, ok := s.SpawnLevelOnTop(terrace)
		assert.False(t, ok)
		assert.Equal(t, depth, s.State().HistoryDepth)
	})
}

func TestStore_WindowPaintUndoTwice(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	base := s.Snapshot()

	s.SetActiveTool(models.OpeningTool(models.WindowStd))
	require.True(t, s.ClickWall(id, models.SideNorth, 0.3))
	assert.True(t, s.ActiveTool().IsNone())

	s.SetActiveTool(models.PaintTool("#334155"))
	require.True(t, s.ClickWall(id, models.SideSouth, 0.5))
	assert.Equal(t, models.ToolPaint, s.ActiveTool().Kind)
	assert.Equal(t, "#334155", s.WallMat(id, models.SideSouth))

	require.True(t, s.Undo())
	require.True(t, s.Undo())
	assertSnapshot(t, base, s.Snapshot())
}

func TestStore_AddModuleDefaults(t *testing.T) {
	s := newTestStore()
	living := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	terrace := s.AddModule(models.KindTerrace, 4, 0, DefaultModuleSize)

	m, _ := s.Module(living)
	assert.Equal(t, models.FloorWood, m.Floor)
	assert.Len(t, m.Walls, 4)
	for _, side := range models.Sides {
		assert.Equal(t, models.MatOpen, m.Walls[side].Mat)
	}
	assert.Equal(t, models.RoofNone, m.Roof.Type)

	tm, _ := s.Module(terrace)
	assert.Equal(t, TerraceHeight, tm.Size.H)
	assert.Equal(t, models.FloorDecking, tm.Floor)
	assert.Equal(t, TerraceColor, tm.Color)
	assert.Equal(t, terrace, s.Selection().ID)
}

func TestStore_AddPropAtSelectedModule(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 2, 3, DefaultModuleSize)
	upperID, _ := s.SpawnLevelOnTop(id)
	s.Select(&models.Selection{Type: models.SelectModule, ID: upperID})

	propID := s.AddProp(models.PropSofa, nil, 0)
	p, ok := s.Prop(propID)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{2, 2.8, 3}, p.Pos[:], 1e-9)
	require.NotNil(t, p.Size)
	assert.Equal(t, [3]float64{2.2, 0.8, 0.9}, *p.Size)
	assert.Equal(t, models.CutoutModifiers{}, p.Modifiers())
	assert.Equal(t, models.SelectProp, s.Selection().Type)
}

func TestStore_ContinuousEditsSkipHistory(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	depth := s.State().HistoryDepth

	require.True(t, s.UpdateModulePosition(id, 1.234, -0.76))
	require.True(t, s.UpdateModuleRotation(id, 1))

	m, _ := s.Module(id)
	assert.InDelta(t, 1.2, m.Grid.X, 1e-9)
	assert.InDelta(t, -0.8, m.Grid.Z, 1e-9)
	assert.Equal(t, depth, s.State().HistoryDepth)

	s.PushHistory()
	assert.Equal(t, depth+1, s.State().HistoryDepth)
}

func TestStore_RemoveSelection(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	opID, _ := s.AddOpening(id, models.SideNorth, models.WindowStd, nil, nil)

	require.True(t, s.RemoveSelection())
	_, ok := s.Opening(id, models.SideNorth, opID)
	assert.False(t, ok)
	assert.Nil(t, s.Selection())

	s.Select(&models.Selection{Type: models.SelectModule, ID: id})
	require.True(t, s.RemoveSelection())
	assert.Empty(t, s.Snapshot().Modules)

	assert.False(t, s.RemoveSelection())
}

func TestStore_RotateSelection(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	require.True(t, s.RotateSelection())
	m, _ := s.Module(id)
	assert.InDelta(t, 1.5707963, m.Grid.Rot, 1e-6)

	s.Select(nil)
	assert.False(t, s.RotateSelection())
}

func TestStore_SetAllRoofsAndClear(t *testing.T) {
	s := newTestStore()
	assert.False(t, s.SetAllRoofs(models.RoofFlat))

	s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	s.AddModule(models.KindLiving, 3, 0, DefaultModuleSize)
	require.True(t, s.SetAllRoofs(models.RoofFlat))
	for _, m := range s.Snapshot().Modules {
		assert.Equal(t, models.RoofFlat, m.Roof.Type)
	}

	s.ClearAll()
	assert.Empty(t, s.Snapshot().Modules)
	require.True(t, s.Undo())
	assert.Len(t, s.Snapshot().Modules, 2)
}

func TestStore_Subscribe(t *testing.T) {
	s := newTestStore()
	var got []State
	unsubscribe := s.Subscribe(func(st State) { got = append(got, st) })

	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Modules, 1)
	assert.True(t, got[0].CanUndo)

	got[0].Modules[0].Walls[models.SideNorth] = models.WallData{Mat: "changed"}
	assert.Equal(t, models.MatOpen, s.WallMat(id, models.SideNorth))

	s.SetWallMaterial("missing", models.SideNorth, "#fff")
	assert.Len(t, got, 1)

	unsubscribe()
	s.ClearAll()
	assert.Len(t, got, 1)
}

func TestStore_SubscribeInOrder(t *testing.T) {
	s := New()
	var (
		mu       sync.Mutex
		versions []uint64
	)
	s.Subscribe(func(st State) {
		mu.Lock()
		versions = append(versions, st.Version)
		mu.Unlock()
	})

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.AddModule(models.KindLiving, float64(i), 0, DefaultModuleSize)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, versions, writers*perWriter)
	for i, v := range versions {
		assert.Equal(t, uint64(i+1), v, "view %d delivered out of order", i)
	}
	assert.Equal(t, uint64(writers*perWriter), s.State().Version)
}

func TestStore_SubscriberMayWrite(t *testing.T) {
	s := newTestStore()
	var seen []int
	s.Subscribe(func(st State) {
		seen = append(seen, len(st.Modules))
		if len(st.Modules) == 1 {
			s.AddModule(models.KindLiving, 5, 0, DefaultModuleSize)
		}
	})

	s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	assert.Equal(t, []int{1, 2}, seen)
}

type countingObserver struct {
	commands []string
	depth    int
}

func (o *countingObserver) CommandApplied(name string) { o.commands = append(o.commands, name) }
func (o *countingObserver) HistoryChanged(depth, _ int) { o.depth = depth }

func TestStore_Observer(t *testing.T) {
	obs := &countingObserver{}
	s := newTestStore(WithObserver(obs))

	s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	s.Undo()
	s.Undo()

	assert.Equal(t, []string{"add_module", "undo"}, obs.commands)
	assert.Equal(t, 0, obs.depth)
}

func TestStore_Geometry(t *testing.T) {
	s := newTestStore()
	id := s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
	s.SetWallMaterial(id, models.SideNorth, "#fff")
	s.SetRoof(id, models.RoofFlat, nil, nil)

	scene := s.Geometry()
	require.Len(t, scene.Modules, 1)
	assert.Equal(t, id, scene.Modules[0].ID)
	assert.NotNil(t, scene.Modules[0].Roof)
	assert.Nil(t, scene.SmartRoof)

	s.ToggleSmartRoof()
	scene = s.Geometry()
	assert.Nil(t, scene.Modules[0].Roof)
	assert.NotNil(t, scene.SmartRoof)
}
