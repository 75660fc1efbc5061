package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modulmate/internal/editor/geometry"
	"modulmate/internal/editor/models"
)

func module(id string, level int) models.Module {
	walls := make(map[models.WallSide]models.WallData, 4)
	for _, side := range models.Sides {
		walls[side] = models.WallData{Mat: models.MatOpen, Structure: models.StructureSmooth, Openings: []models.Opening{}}
	}
	overhang := 0.3
	return models.Module{
		ID:    id,
		Kind:  models.KindLiving,
		Level: level,
		Size:  models.Size{W: 3, D: 6, H: 2.8},
		Walls: walls,
		Roof:  models.Roof{Type: models.RoofNone, Overhang: &overhang},
		Floor: models.FloorWood,
	}
}

func withWall(m models.Module, side models.WallSide, mat string, openings ...models.Opening) models.Module {
	m.Walls[side] = models.WallData{Mat: mat, Structure: models.StructureSmooth, Openings: openings}
	return m
}

func countKind(polys []Polygon, kind string) int {
	n := 0
	for _, p := range polys {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func TestPlan(t *testing.T) {
	lower := withWall(module("m0", 0), models.SideNorth, "#334155")
	upper := module("m1", 1)
	upper.Roof.Type = models.RoofFlat
	stair := models.Prop{ID: "s", Type: models.PropStairStraight, Pos: [3]float64{0, 0, 0}, Size: &[3]float64{1, 2.8, 3.2}}

	scene := geometry.Build(geometry.Input{
		Modules: []models.Module{upper, lower},
		Props:   []models.Prop{stair},
	})

	polys := Plan(scene, false)
	assert.Equal(t, 2, countKind(polys, "floor"))
	assert.Equal(t, 1, countKind(polys, "wall"))
	assert.Equal(t, 0, countKind(polys, "roof"))

	require.Equal(t, "m0", polys[0].ID)
	for _, p := range polys {
		if p.Kind == "floor" && p.ID == "m1" {
			assert.Len(t, p.Holes, 1)
		}
		if p.Kind == "wall" {
			assert.Equal(t, "#334155", p.Fill)
		}
	}

	withRoofs := Plan(scene, true)
	assert.Equal(t, 1, countKind(withRoofs, "roof"))
	assert.Equal(t, "roof", withRoofs[len(withRoofs)-1].Kind)
}

func TestElevation_FacingWall(t *testing.T) {
	door := models.Opening{ID: "d1", Type: models.DoorExterior, X: 0.5, Y: 0.05, W: 0.9, H: 2.1}
	m := withWall(module("m0", 0), models.SideSouth, "#aa0000", door)
	m.Roof.Type = models.RoofGable
	scene := geometry.Build(geometry.Input{Modules: []models.Module{m}})

	south := Elevation(scene, models.ExportSouth)
	require.Equal(t, 1, countKind(south, "module"))
	assert.Equal(t, 1, countKind(south, "opening"))
	assert.Equal(t, 1, countKind(south, "roof"))
	for _, p := range south {
		if p.Kind == "module" {
			assert.Equal(t, "#aa0000", p.Fill)
			b := p.Outer.Bounds()
			assert.InDelta(t, 3.0, b.X.Length(), 1e-9)
			assert.InDelta(t, 2.8, b.Y.Length(), 1e-9)
		}
		if p.Kind == "roof" {
			b := p.Outer.Bounds()
			assert.InDelta(t, 3.6, b.X.Length(), 1e-9)
			assert.InDelta(t, 2.8, b.Y.Lo, 1e-9)
		}
	}

	north := Elevation(scene, models.ExportNorth)
	assert.Equal(t, 0, countKind(north, "opening"))
	for _, p := range north {
		if p.Kind == "module" {
			assert.Equal(t, colorFor("floor_wood"), p.Fill)
		}
	}
}

func TestProject_UnknownStep(t *testing.T) {
	_, err := Project(geometry.Scene{}, models.ExportIdle)
	assert.Error(t, err)

	v, err := Project(geometry.Scene{}, models.ExportEast)
	require.NoError(t, err)
	assert.True(t, v.YUp)
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, "#123456", colorFor("#123456"))
	assert.Equal(t, palette["roof_tiles"], colorFor("roof_tiles"))
	assert.Equal(t, defaultFill, colorFor("unobtainium"))
}

func TestSVGRenderer(t *testing.T) {
	door := models.Opening{ID: "d1", Type: models.DoorExterior, X: 0.5, Y: 0.05, W: 0.9, H: 2.1}
	m := withWall(module("m0", 0), models.SideSouth, "#aa0000", door)
	modules := []models.Module{m}
	scene := geometry.Build(geometry.Input{Modules: modules})

	svg, err := NewSVGRenderer().Render(&scene, modules)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, `<?xml`))
	assert.Contains(t, svg, `<path id="m0" class="floor"`)
	assert.Contains(t, svg, `class="wall"`)
	assert.Contains(t, svg, `<path id="d1" class="opening"`)
	assert.Contains(t, svg, `stroke="#d62728"`)
	assert.Contains(t, svg, `width="250" height="400"`)

	_, err = NewSVGRenderer().Render(nil, nil)
	assert.Error(t, err)
}

func TestCapture(t *testing.T) {
	scene := geometry.Build(geometry.Input{Modules: []models.Module{module("m0", 0)}})
	opts := CaptureOptions{Size: 200, Scale: 20, Background: "#ffffff", Outline: "#333333"}

	img, err := Capture(scene, models.ExportTop, opts)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())

	r, g, b, _ := img.At(100, 100).RGBA()
	assert.False(t, r == 0xffff && g == 0xffff && b == 0xffff, "floor must be painted at the centre")

	r, g, b, _ = img.At(2, 2).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})

	_, err = Capture(scene, models.ExportDone, opts)
	assert.Error(t, err)
	_, err = Capture(scene, models.ExportTop, CaptureOptions{})
	assert.Error(t, err)
}

func TestCapturePNG(t *testing.T) {
	scene := geometry.Build(geometry.Input{Modules: []models.Module{module("m0", 0)}})
	opts := DefaultCaptureOptions()
	opts.Size = 64

	data, err := CapturePNGBytes(scene, models.ExportWest, opts)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dy())
}
