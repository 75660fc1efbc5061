package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modulmate/internal/editor/models"
)

func TestProject_SaveLoad(t *testing.T) {
	src := newTestStore()
	id := src.AddModule(models.KindLiving, 1, 2, DefaultModuleSize)
	src.SetWallMaterial(id, models.SideNorth, "#334155")
	src.AddOpening(id, models.SideNorth, models.WindowPano, nil, nil)
	src.AddProp(models.PropStairSpiral, &[3]float64{1, 0, 2}, 0)
	hour := 18.0
	src.SetEnvironment(models.EnvironmentPatch{Time: &hour})

	var buf bytes.Buffer
	require.NoError(t, src.SaveProject(&buf))

	dst := newTestStore()
	require.NoError(t, dst.LoadProject(&buf))

	assertSnapshot(t, src.Snapshot(), dst.Snapshot())
	assert.Equal(t, 18.0, dst.Environment().Time)
	assert.True(t, dst.State().CanUndo)

	require.True(t, dst.Undo())
	assert.Empty(t, dst.Snapshot().Modules)
}

func TestProject_LoadWithoutEnvironment(t *testing.T) {
	s := newTestStore()
	s.ToggleDarkMode()

	require.NoError(t, s.LoadProject(strings.NewReader(`{"modules": [], "props": []}`)))
	assert.Equal(t, 22.0, s.Environment().Time)
}

func TestProject_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"missing props", `{"modules": []}`},
		{"null modules", `{"modules": null, "props": []}`},
		{"bad modules", `{"modules": {"a": 1}, "props": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			s.AddModule(models.KindLiving, 0, 0, DefaultModuleSize)
			before := s.Snapshot()
			depth := s.State().HistoryDepth

			err := s.LoadProject(strings.NewReader(tt.data))
			require.ErrorIs(t, err, ErrMalformedProject)
			assertSnapshot(t, before, s.Snapshot())
			assert.Equal(t, depth, s.State().HistoryDepth)
		})
	}
}
