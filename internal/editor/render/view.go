package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"modulmate/internal/editor/geometry"
	"modulmate/internal/editor/models"
)

// ============================================================
// Projection
// ============================================================
//
// Сцена проецируется в набор плоских многоугольников, которые затем
// рисуются в порядке Depth. В плане X: мировой x, Y: мировой z (вниз);
// на фасадах X: координата вдоль взгляда вправо, Y: высота (вверх).

// Polygon: закрашиваемый контур с отверстиями (even-odd).
type Polygon struct {
	ID    string
	Kind  string
	Outer geometry.Path
	Holes []geometry.Path
	Fill  string
	Depth float64
}

// View: проекция сцены для одного ракурса.
type View struct {
	Step     models.ExportStep
	YUp      bool
	Polygons []Polygon
}

// Bounds возвращает габарит всех контуров вида.
func (v View) Bounds() r2.Rect {
	b := r2.EmptyRect()
	for _, p := range v.Polygons {
		for _, pt := range p.Outer {
			b = b.AddPoint(pt)
		}
	}
	return b
}

// Project строит вид сцены для шага экспорта. Для idle и done вида нет.
func Project(scene geometry.Scene, step models.ExportStep) (View, error) {
	switch step {
	case models.ExportTop:
		return View{Step: step, Polygons: Plan(scene, true)}, nil
	case models.ExportNorth, models.ExportSouth, models.ExportEast, models.ExportWest:
		return View{Step: step, YUp: true, Polygons: Elevation(scene, step)}, nil
	}
	return View{}, fmt.Errorf("no camera for export step %q", step)
}

// ============================================================
// Materials
// ============================================================

var palette = map[string]string{
	"plaster_white":  "#f1f1ee",
	"roof_tiles":     "#5b4a42",
	"alu_anthracite": "#383e42",
	"glass":          "#9fc6d8",
	"floor_wood":     "#b98a5e",
	"floor_tile":     "#d9d6cf",
	"floor_vinyl":    "#c8b79e",
	"floor_concrete": "#9a9a96",
	"floor_decking":  "#8a6242",
}

const defaultFill = "#c8c8c8"

// colorFor переводит материал в цвет заливки. Цвета "#rrggbb" проходят как есть.
func colorFor(material string) string {
	if strings.HasPrefix(material, "#") {
		return material
	}
	if c, ok := palette[material]; ok {
		return c
	}
	return defaultFill
}

// ============================================================
// Plan
// ============================================================

// Plan проецирует сцену сверху: перекрытия с вырезами, стены, перегородки
// и, при withRoofs, крыши. Нижние уровни идут первыми.
func Plan(scene geometry.Scene, withRoofs bool) []Polygon {
	var out []Polygon

	for _, mg := range scene.Modules {
		mf := geometry.NewFrame(mg.Origin.X, mg.Origin.Y, mg.Rotation)

		floor := Polygon{
			ID:    mg.ID,
			Kind:  "floor",
			Outer: mf.ToWorldPath(mg.Floor.Profile.Outer),
			Fill:  colorFor(mg.Floor.Material),
			Depth: mg.Elevation,
		}
		for _, h := range mg.Floor.Profile.Holes {
			floor.Holes = append(floor.Holes, mf.ToWorldPath(h))
		}
		out = append(out, floor)

		for _, wg := range mg.Walls {
			if wg.Open {
				continue
			}
			out = append(out, Polygon{
				ID:    mg.ID + ":" + string(wg.Side),
				Kind:  "wall",
				Outer: mf.ToWorldPath(wallFootprint(wg)),
				Fill:  colorFor(wg.Facade.Material),
				Depth: mg.Elevation + wg.Height,
			})
		}

		if withRoofs && mg.Roof != nil {
			out = append(out, roofPlan(mg.ID, mg.Roof))
		}
	}

	for _, iw := range scene.InternalWalls {
		b := iw.Body.Profile.Bounds()
		local := geometry.RectPath(r2.RectFromPoints(
			r2.Point{X: b.X.Lo, Y: iw.Body.Offset},
			r2.Point{X: b.X.Hi, Y: iw.Body.Offset + iw.Body.Depth},
		))
		f := geometry.NewFrame(iw.Position.X, iw.Position.Z, iw.Rotation)
		out = append(out, Polygon{
			ID:    iw.PropID,
			Kind:  "internal_wall",
			Outer: f.ToWorldPath(local),
			Fill:  colorFor(iw.Body.Material),
			Depth: iw.Position.Y + b.Y.Hi,
		})
	}

	if withRoofs && scene.SmartRoof != nil {
		out = append(out, roofPlan("smart_roof", scene.SmartRoof))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}

// wallFootprint: след стены в системе модуля.
func wallFootprint(wg geometry.WallGeometry) geometry.Path {
	w := wg.Placement.Width
	local := geometry.RectPath(r2.RectFromPoints(
		r2.Point{X: -w / 2, Y: 0},
		r2.Point{X: w / 2, Y: geometry.FacadeThickness + geometry.WallThickness},
	))
	return wg.Placement.Frame().ToWorldPath(local)
}

func roofFrame(r *geometry.RoofGeometry) geometry.Frame {
	return geometry.NewFrame(r.Footprint.Center.X, r.Footprint.Center.Y, r.Footprint.Rotation)
}

func roofPlan(id string, r *geometry.RoofGeometry) Polygon {
	local := geometry.RectPath(r2.RectFromPoints(
		r2.Point{X: -r.Width / 2, Y: -r.Depth / 2},
		r2.Point{X: r.Width / 2, Y: r.Depth / 2},
	))
	return Polygon{
		ID:    id,
		Kind:  "roof",
		Outer: roofFrame(r).ToWorldPath(local),
		Fill:  colorFor("roof_tiles"),
		Depth: r.Base + r.Ridge,
	}
}

// ============================================================
// Elevations
// ============================================================

// camera: направления фасадного вида в плане: right вправо по картинке,
// toward от сцены к камере.
type camera struct {
	right  r2.Point
	toward r2.Point
}

var cameras = map[models.ExportStep]camera{
	models.ExportNorth: {right: r2.Point{X: -1}, toward: r2.Point{Y: -1}},
	models.ExportSouth: {right: r2.Point{X: 1}, toward: r2.Point{Y: 1}},
	models.ExportEast:  {right: r2.Point{Y: -1}, toward: r2.Point{X: 1}},
	models.ExportWest:  {right: r2.Point{Y: 1}, toward: r2.Point{X: -1}},
}

// wallNormals: внешние нормали стен в системе модуля.
var wallNormals = map[models.WallSide]r2.Point{
	models.SideNorth: {Y: -1},
	models.SideSouth: {Y: 1},
	models.SideEast:  {X: 1},
	models.SideWest:  {X: -1},
}

func (c camera) project(plan r2.Point, y float64) r2.Point {
	return r2.Point{X: plan.Dot(c.right), Y: y}
}

// Elevation проецирует сцену на фасад: модули: силуэтами с цветом обращенной
// к камере стены и ее проемами, крыши: выпуклыми оболочками своих тел.
func Elevation(scene geometry.Scene, step models.ExportStep) []Polygon {
	cam, ok := cameras[step]
	if !ok {
		return nil
	}
	var out []Polygon

	for _, mg := range scene.Modules {
		mf := geometry.NewFrame(mg.Origin.X, mg.Origin.Y, mg.Rotation)
		depth := mg.Origin.Dot(cam.toward)
		footprint := mf.ToWorldPath(mg.Floor.Profile.Outer)

		facing, ok := facingWall(mg, mf, cam)
		top := mg.Elevation + geometry.FloorThickness
		fill := colorFor(mg.Floor.Material)
		if ok {
			top = mg.Elevation + facing.Height
			fill = colorFor(facing.Facade.Material)
		}

		var pts []r2.Point
		for _, p := range footprint {
			pts = append(pts, cam.project(p, mg.Elevation), cam.project(p, top))
		}
		out = append(out, Polygon{
			ID:    mg.ID,
			Kind:  "module",
			Outer: geometry.ConvexHull(pts),
			Fill:  fill,
			Depth: depth,
		})

		if ok {
			wf := facing.Placement.Frame()
			for i, hole := range facing.Facade.Profile.Holes {
				var glass geometry.Path
				for _, p := range hole {
					plan := mf.ToWorld(wf.ToWorld(r2.Point{X: p.X}))
					glass = append(glass, cam.project(plan, mg.Elevation+p.Y))
				}
				out = append(out, Polygon{
					ID:    fmt.Sprintf("%s:%s:%d", mg.ID, facing.Side, i),
					Kind:  "opening",
					Outer: geometry.ConvexHull(glass),
					Fill:  colorFor("glass"),
					Depth: depth + 1e-3,
				})
			}
		}

		if mg.Roof != nil {
			out = append(out, roofElevation(mg.ID, mg.Roof, cam))
		}
	}

	if scene.SmartRoof != nil {
		out = append(out, roofElevation("smart_roof", scene.SmartRoof, cam))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}

// facingWall выбирает закрытую стену модуля, внешняя нормаль которой смотрит на камеру.
func facingWall(mg geometry.ModuleGeometry, mf geometry.Frame, cam camera) (geometry.WallGeometry, bool) {
	best := 0.5
	var found geometry.WallGeometry
	ok := false
	for _, wg := range mg.Walls {
		if wg.Open || wg.Facade == nil {
			continue
		}
		n := geometry.Rotate(wallNormals[wg.Side], mf.Rotation)
		if d := n.Dot(cam.toward); d > best {
			best, found, ok = d, wg, true
		}
	}
	return found, ok
}

func roofElevation(id string, r *geometry.RoofGeometry, cam camera) Polygon {
	rf := roofFrame(r)
	var pts []r2.Point
	add := func(v r3.Vector) {
		plan := rf.ToWorld(r2.Point{X: v.X, Y: v.Z})
		pts = append(pts, cam.project(plan, r.Base+v.Y))
	}
	for _, s := range r.Solids {
		for _, v := range s.Vertices() {
			add(v)
		}
	}
	for _, b := range r.Boxes {
		for _, v := range b.Vertices() {
			add(v)
		}
	}
	return Polygon{
		ID:    id,
		Kind:  "roof",
		Outer: geometry.ConvexHull(pts),
		Fill:  colorFor("roof_tiles"),
		Depth: r.Footprint.Center.Dot(cam.toward) + 2e-3,
	}
}
