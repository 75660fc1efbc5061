package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modulmate/internal/editor/models"
)

func testModule() models.Module {
	walls := make(map[models.WallSide]models.WallData, 4)
	for _, side := range models.Sides {
		walls[side] = models.WallData{Mat: models.MatOpen, Structure: models.StructureSmooth, Openings: []models.Opening{}}
	}
	return models.Module{
		ID:    "m1",
		Kind:  models.KindLiving,
		Size:  models.Size{W: 3, D: 6, H: 2.8},
		Walls: walls,
		Roof:  models.Roof{Type: models.RoofNone},
		Floor: models.FloorWood,
	}
}

func TestOpeningRect(t *testing.T) {
	r := OpeningRect(3, models.Opening{X: 0.5, Y: 0.9, W: 1.0, H: 1.2})

	assert.InDelta(t, -0.5, r.Lo().X, 1e-9)
	assert.InDelta(t, 0.5, r.Hi().X, 1e-9)
	assert.InDelta(t, 0.9, r.Lo().Y, 1e-9)
	assert.InDelta(t, 2.1, r.Hi().Y, 1e-9)
}

func TestCoreAndFacadeProfiles(t *testing.T) {
	openings := []models.Opening{
		{ID: "w1", Type: models.WindowStd, X: 0.3, Y: 0.9, W: 1.0, H: 1.2},
		{ID: "d1", Type: models.DoorExterior, X: 0.75, Y: 0.05, W: 0.9, H: 2.1},
	}

	core := CoreProfile(3, 2.8, openings)
	assert.InDelta(t, -1.35, core.Bounds().Lo().X, 1e-9)
	assert.InDelta(t, 1.35, core.Bounds().Hi().X, 1e-9)
	assert.InDelta(t, 2.8, core.Bounds().Hi().Y, 1e-9)
	assert.Len(t, core.Holes, 2)

	inset := FacadeProfile(3, 2.8, openings, false)
	assert.InDelta(t, -1.35, inset.Bounds().Lo().X, 1e-9)

	covering := FacadeProfile(3, 2.8, openings, true)
	assert.InDelta(t, -1.5, covering.Bounds().Lo().X, 1e-9)
	assert.InDelta(t, 1.5, covering.Bounds().Hi().X, 1e-9)
	assert.Len(t, covering.Holes, 2)

	wantArea := 2.7*2.8 - 1.0*1.2 - 0.9*2.1
	assert.InDelta(t, wantArea, core.NetArea(), 1e-9)
}

func TestWallProfile_HoleOutsideBoundsIsKept(t *testing.T) {
	openings := []models.Opening{{ID: "x", X: 0, Y: 0.5, W: 1, H: 1}}

	p := CoreProfile(3, 2.8, openings)
	require.Len(t, p.Holes, 1)
	assert.InDelta(t, -2.0, p.Holes[0].Bounds().Lo().X, 1e-9)
}

func TestPlaceWall(t *testing.T) {
	size := models.Size{W: 3, D: 6, H: 2.8}

	tests := []struct {
		side  models.WallSide
		x, z  float64
		rot   float64
		width float64
	}{
		{models.SideNorth, 0, -3, 0, 3},
		{models.SideSouth, 0, 3, math.Pi, 3},
		{models.SideEast, 1.5, 0, -math.Pi / 2, 6},
		{models.SideWest, -1.5, 0, math.Pi / 2, 6},
	}

	for _, tt := range tests {
		t.Run(string(tt.side), func(t *testing.T) {
			p := PlaceWall(size, tt.side)
			assert.Equal(t, tt.x, p.Offset.X)
			assert.Equal(t, tt.z, p.Offset.Z)
			assert.Equal(t, tt.rot, p.Rotation)
			assert.Equal(t, tt.width, p.Width)
		})
	}
}

func TestBuildWall(t *testing.T) {
	m := testModule()

	open := BuildWall(m, models.SideNorth)
	assert.True(t, open.Open)
	assert.Nil(t, open.Core)
	assert.Nil(t, open.Facade)

	m.Walls[models.SideEast] = models.WallData{
		Mat:       "#334155",
		Structure: models.StructureBrick,
		Openings:  []models.Opening{{ID: "w", X: 0.5, Y: 0.9, W: 1, H: 1.2}},
	}
	solid := BuildWall(m, models.SideEast)
	require.NotNil(t, solid.Core)
	require.NotNil(t, solid.Facade)
	assert.False(t, solid.Open)
	assert.Equal(t, "#334155", solid.Facade.Material)
	assert.Equal(t, FacadeThickness, solid.Core.Offset)
	assert.Equal(t, WallThickness, solid.Core.Depth)
	assert.Equal(t, FacadeThickness, solid.Facade.Depth)
	assert.InDelta(t, 6.0-2*ColumnWidth, solid.Core.Profile.Bounds().Size().X, 1e-9)
	assert.Len(t, solid.Core.Profile.Holes, 1)
}

func TestBuildInternalWall(t *testing.T) {
	size := [3]float64{4, 2.5, 0.12}
	p := models.Prop{
		ID:   "iw",
		Type: models.PropWallInternal,
		Pos:  [3]float64{1, 0, 2},
		Size: &size,
		WallData: &models.WallData{
			Mat:      "plaster_white",
			Openings: []models.Opening{{ID: "d", Type: models.DoorInterior, X: 0.5, Y: 0.05, W: 0.9, H: 2.1}},
		},
	}

	g := BuildInternalWall(p)
	b := g.Body.Profile.Bounds()
	assert.InDelta(t, 4.0, b.Size().X, 1e-9)
	assert.InDelta(t, 2.5, b.Size().Y, 1e-9)
	assert.Equal(t, 0.12, g.Body.Depth)
	assert.Len(t, g.Body.Profile.Holes, 1)

	bare := BuildInternalWall(models.Prop{ID: "bare", Type: models.PropWallInternal})
	assert.InDelta(t, InternalWallWidth, bare.Body.Profile.Bounds().Size().X, 1e-9)
	assert.Empty(t, bare.Body.Profile.Holes)
}
