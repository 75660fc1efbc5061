package geometry

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// ============================================================
// Paths
// ============================================================

// Path: замкнутый контур; последняя точка соединяется с первой неявно.
type Path []r2.Point

// SignedArea считает ориентированную площадь по формуле шнурования (CCW > 0).
func (p Path) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func (p Path) Area() float64 {
	return math.Abs(p.SignedArea())
}

func (p Path) Reversed() Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Bounds возвращает габаритный прямоугольник контура.
func (p Path) Bounds() r2.Rect {
	return r2.RectFromPoints(p...)
}

// Contains проверяет попадание точки внутрь контура (четность пересечений луча).
func (p Path) Contains(pt r2.Point) bool {
	in := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) && pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func (p Path) ccw() Path {
	if p.SignedArea() < 0 {
		return p.Reversed()
	}
	return p
}

func (p Path) cw() Path {
	if p.SignedArea() > 0 {
		return p.Reversed()
	}
	return p
}

// MarshalJSON пишет контур как [[x, y], ...].
func (p Path) MarshalJSON() ([]byte, error) {
	out := make([][2]float64, len(p))
	for i, pt := range p {
		out[i] = [2]float64{pt.X, pt.Y}
	}
	return json.Marshal(out)
}

func (p *Path) UnmarshalJSON(b []byte) error {
	var raw [][2]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Path, len(raw))
	for i, pt := range raw {
		out[i] = r2.Point{X: pt[0], Y: pt[1]}
	}
	*p = out
	return nil
}

// RectPath строит прямоугольник против часовой стрелки начиная с нижнего левого угла.
func RectPath(r r2.Rect) Path {
	v := r.Vertices()
	return Path{v[0], v[1], v[2], v[3]}
}

// CirclePath аппроксимирует окружность правильным многоугольником.
func CirclePath(center r2.Point, radius float64, segments int) Path {
	if segments < 3 {
		segments = 3
	}
	out := make(Path, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		out[i] = r2.Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	return out
}

// ConvexHull строит выпуклую оболочку точек (монотонная цепь Эндрю), результат CCW.
func ConvexHull(points []r2.Point) Path {
	pts := append([]r2.Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	if len(pts) < 3 {
		return Path(pts)
	}

	cross := func(o, a, b r2.Point) float64 {
		return a.Sub(o).Cross(b.Sub(o))
	}

	hull := make(Path, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// ============================================================
// Profile
// ============================================================

// Profile: плоский контур с отверстиями, готовый к выдавливанию.
// Внешний контур всегда CCW, отверстия CW.
type Profile struct {
	Outer Path   `json:"outer"`
	Holes []Path `json:"holes"`
}

func NewProfile(outer Path) *Profile {
	return &Profile{Outer: outer.ccw(), Holes: []Path{}}
}

// RectProfile: прямоугольный контур [minX,maxX]×[minY,maxY].
func RectProfile(minX, minY, maxX, maxY float64) *Profile {
	return NewProfile(RectPath(r2.RectFromPoints(r2.Point{X: minX, Y: minY}, r2.Point{X: maxX, Y: maxY})))
}

// AddHole вычитает контур. Отверстие не обрезается по внешней границе и не
// проверяется на пересечения с другими отверстиями.
func (p *Profile) AddHole(hole Path) {
	if len(hole) < 3 {
		return
	}
	p.Holes = append(p.Holes, hole.cw())
}

func (p *Profile) AddRectHole(r r2.Rect) {
	p.AddHole(RectPath(r))
}

// NetArea: площадь внешнего контура минус площади отверстий без учета их перекрытий.
func (p *Profile) NetArea() float64 {
	area := p.Outer.Area()
	for _, h := range p.Holes {
		area -= h.Area()
	}
	return area
}

func (p *Profile) Bounds() r2.Rect {
	return p.Outer.Bounds()
}

// Clone копирует контуры, чтобы вызывающий мог их менять.
func (p *Profile) Clone() *Profile {
	out := &Profile{Outer: append(Path{}, p.Outer...), Holes: make([]Path, len(p.Holes))}
	for i, h := range p.Holes {
		out.Holes[i] = append(Path{}, h...)
	}
	return out
}
