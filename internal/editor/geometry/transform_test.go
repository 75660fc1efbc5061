package geometry

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestRotate_QuarterTurn(t *testing.T) {
	got := Rotate(r2.Point{X: 1, Y: 0}, math.Pi/2)
	assert.InDelta(t, 0.0, got.X, 1e-12)
	assert.InDelta(t, 1.0, got.Y, 1e-12)
}

func TestFrame_ToLocal(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		world r2.Point
		want  r2.Point
	}{
		{"origin maps to zero", NewFrame(4, -2, 1.1), r2.Point{X: 4, Y: -2}, r2.Point{}},
		{"pure translation", NewFrame(1, 2, 0), r2.Point{X: 3, Y: 5}, r2.Point{X: 2, Y: 3}},
		{"quarter turn", NewFrame(1, 2, math.Pi/2), r2.Point{X: 1, Y: 3}, r2.Point{X: 1, Y: 0}},
		{"half turn", NewFrame(0, 0, math.Pi), r2.Point{X: 2, Y: 1}, r2.Point{X: -2, Y: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.frame.ToLocal(tt.world)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("ToLocal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFrame_RoundTrip(t *testing.T) {
	frames := []Frame{
		NewFrame(0, 0, 0),
		NewFrame(3.5, -1.25, 0.7),
		NewFrame(-10, 4, -2.4),
		NewFrame(1, 1, math.Pi),
	}
	points := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: -2}, {X: -3.3, Y: 7.1}}

	for _, f := range frames {
		for _, p := range points {
			back := f.ToWorld(f.ToLocal(p))
			if diff := cmp.Diff(p, back, approx); diff != "" {
				t.Errorf("frame %+v: round trip mismatch (-want +got):\n%s", f, diff)
			}
		}
	}
}

func TestPlace_RotatesThenTranslates(t *testing.T) {
	got := Place([]r2.Point{{X: 1, Y: 0}}, math.Pi/2, r2.Point{X: 10, Y: 10})
	want := []r2.Point{{X: 10, Y: 11}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Place mismatch (-want +got):\n%s", diff)
	}
}
