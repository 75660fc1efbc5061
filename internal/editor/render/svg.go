package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"

	"modulmate/internal/editor/geometry"
	"modulmate/internal/editor/models"
)

// ============================================================
// SVG plan renderer
// ============================================================

// DefaultPlanScale: пикселей на метр в SVG-плане.
const DefaultPlanScale = 50.0

const planMargin = 1.0 // м

type SVGRenderer struct {
	Scale float64
}

func NewSVGRenderer() *SVGRenderer {
	return &SVGRenderer{Scale: DefaultPlanScale}
}

// Render собирает SVG-план сцены: перекрытия, стены, перегородки и проемы.
// Крыши в план не попадают.
func (r *SVGRenderer) Render(scene *geometry.Scene, modules []models.Module) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("scene is nil")
	}

	polygons := Plan(*scene, false)
	bounds := View{Polygons: polygons}.Bounds()
	if bounds.IsEmpty() {
		bounds = r2.RectFromPoints(r2.Point{X: -5, Y: -5}, r2.Point{X: 5, Y: 5})
	}
	bounds = bounds.ExpandedByMargin(planMargin)

	scale := r.Scale
	if scale <= 0 {
		scale = DefaultPlanScale
	}
	size := bounds.Size().Mul(scale)

	var elements []string
	elements = append(elements, r.renderPolygons(polygons)...)
	elements = append(elements, r.renderOpenings(modules)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(size.X), formatFloat(size.Y),
		formatFloat(bounds.X.Lo), formatFloat(bounds.Y.Lo),
		formatFloat(bounds.X.Length()), formatFloat(bounds.Y.Length())))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *SVGRenderer) renderPolygons(polygons []Polygon) []string {
	var out []string

	for _, p := range polygons {
		if len(p.Outer) < 3 {
			continue
		}

		var path strings.Builder
		path.WriteString(`<path id="`)
		path.WriteString(p.ID)
		path.WriteString(`" class="`)
		path.WriteString(p.Kind)
		path.WriteString(`" d="`)
		path.WriteString(pathData(p.Outer))
		for _, h := range p.Holes {
			path.WriteString(" ")
			path.WriteString(pathData(h))
		}
		path.WriteString(fmt.Sprintf(`" fill="%s" fill-rule="evenodd" stroke="#000" stroke-width="0.01" />`, p.Fill))

		out = append(out, path.String())
	}

	return out
}

// renderOpenings рисует проемы поверх стен модулей: двери красным, окна синим.
func (r *SVGRenderer) renderOpenings(modules []models.Module) []string {
	var out []string

	for _, m := range modules {
		if m.IsTerrace() {
			continue
		}
		mf := geometry.NewFrame(m.Grid.X, m.Grid.Z, m.Grid.Rot)

		for _, side := range models.Sides {
			wall, ok := m.Walls[side]
			if !ok || wall.IsOpen() {
				continue
			}
			placement := geometry.PlaceWall(m.Size, side)
			wf := placement.Frame()

			for _, op := range wall.Openings {
				rect := geometry.OpeningRect(placement.Width, op)
				thickness := geometry.FacadeThickness + geometry.WallThickness
				local := geometry.RectPath(r2.RectFromPoints(
					r2.Point{X: rect.X.Lo, Y: 0},
					r2.Point{X: rect.X.Hi, Y: thickness},
				))
				world := mf.ToWorldPath(wf.ToWorldPath(local))

				stroke := "#1f77b4"
				if op.Type.IsDoor() {
					stroke = "#d62728"
				}
				out = append(out, fmt.Sprintf(`<path id="%s" class="opening" d="%s" fill="#fff" stroke="%s" stroke-width="0.02" />`,
					op.ID, pathData(world), stroke))
			}
		}
	}

	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func pathData(p geometry.Path) string {
	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(formatPoint(p[0]))
	for _, pt := range p[1:] {
		b.WriteString(" L ")
		b.WriteString(formatPoint(pt))
	}
	b.WriteString(" Z")
	return b.String()
}

func formatFloat(val float64) string {
	// 0.1 мм
	return strconv.FormatFloat(math.Round(val*1e4)/1e4, 'f', -1, 64)
}

func formatPoint(p r2.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
