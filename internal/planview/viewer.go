package planview

import (
	"context"
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/geo/r2"

	"modulmate/internal/editor/models"
	"modulmate/internal/editor/render"
	"modulmate/internal/editor/store"
)

// ============================================================
// Terminal Plan Viewer
// ============================================================

const (
	defaultScale = 4.0 // клеток на метр по горизонтали
	minScale     = 0.5
	maxScale     = 32.0
	cellAspect   = 2.0 // клетка терминала вдвое выше своей ширины
)

var glyphs = map[string]rune{
	"floor":         '.',
	"wall":          '#',
	"internal_wall": '|',
	"roof":          '^',
	"module":        '█',
	"opening":       'o',
}

// views: порядок переключения ракурсов клавишей v.
var views = []models.ExportStep{models.ExportTop, models.ExportNorth, models.ExportSouth, models.ExportEast, models.ExportWest}

type Viewer struct {
	screen tcell.Screen
	store  *store.Store

	view  int
	scale float64
	pan   r2.Point
	roofs bool
}

func New(screen tcell.Screen, st *store.Store) *Viewer {
	return &Viewer{screen: screen, store: st, scale: defaultScale}
}

// Step возвращает текущий ракурс.
func (v *Viewer) Step() models.ExportStep { return views[v.view] }

// Run рисует сцену и обрабатывает клавиши до q/Esc или отмены ctx.
// Экран должен быть инициализирован вызывающим.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := v.store.Subscribe(func(store.State) {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer unsubscribe()

	go func() {
		<-ctx.Done()
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(ctx))
	}()

	v.Draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !v.HandleEvent(ev) {
			return nil
		}
		v.Draw()
	}
}

// HandleEvent применяет событие. false: выход.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		step := 1 / v.scale * 4
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.pan.X -= step
		case tcell.KeyRight:
			v.pan.X += step
		case tcell.KeyUp:
			v.pan.Y -= step
		case tcell.KeyDown:
			v.pan.Y += step
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'v':
				v.view = (v.view + 1) % len(views)
				v.pan = r2.Point{}
			case 'r':
				v.roofs = !v.roofs
			case '+', '=':
				v.scale = min(v.scale*1.25, maxScale)
			case '-':
				v.scale = max(v.scale/1.25, minScale)
			case '0':
				v.scale, v.pan = defaultScale, r2.Point{}
			case 'u':
				v.store.Undo()
			case 'U':
				v.store.Redo()
			}
		}
	}
	return true
}

// Draw перерисовывает экран: проекцию сцены и строку состояния.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w <= 0 || h <= 1 {
		v.screen.Show()
		return
	}

	view, err := v.project()
	if err != nil {
		log.Printf("[PLANVIEW] project: %v", err)
	} else {
		v.drawView(view, w, h-1)
	}
	v.drawStatus(w, h-1)
	v.screen.Show()
}

func (v *Viewer) project() (render.View, error) {
	scene := v.store.Geometry()
	step := v.Step()
	if step == models.ExportTop && !v.roofs {
		return render.View{Step: step, Polygons: render.Plan(scene, false)}, nil
	}
	return render.Project(scene, step)
}

func (v *Viewer) drawView(view render.View, w, h int) {
	center := r2.Point{}
	if b := view.Bounds(); !b.IsEmpty() {
		center = b.Center()
	}
	center = center.Add(v.pan)

	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			p := r2.Point{
				X: center.X + (float64(cx)+0.5-float64(w)/2)/v.scale,
				Y: (float64(cy) + 0.5 - float64(h)/2) * cellAspect / v.scale,
			}
			if view.YUp {
				p.Y = center.Y - p.Y
			} else {
				p.Y += center.Y
			}
			if poly, ok := topmost(view.Polygons, p); ok {
				style := tcell.StyleDefault.Foreground(tcell.GetColor(poly.Fill))
				v.screen.SetContent(cx, cy, glyph(poly.Kind), nil, style)
			}
		}
	}
}

// topmost возвращает последний (ближайший к камере) многоугольник под точкой.
func topmost(polys []render.Polygon, p r2.Point) (render.Polygon, bool) {
	for i := len(polys) - 1; i >= 0; i-- {
		poly := polys[i]
		if !poly.Outer.Contains(p) {
			continue
		}
		inHole := false
		for _, hole := range poly.Holes {
			if hole.Contains(p) {
				inHole = true
				break
			}
		}
		if !inHole {
			return poly, true
		}
	}
	return render.Polygon{}, false
}

func glyph(kind string) rune {
	if g, ok := glyphs[kind]; ok {
		return g
	}
	return '?'
}

func (v *Viewer) drawStatus(w, row int) {
	st := v.store.State()
	tool := "-"
	if !st.ActiveTool.IsNone() {
		tool = st.ActiveTool.String()
	}
	sky := "day"
	if st.Environment.IsNight() {
		sky = "night"
	}
	sel := ""
	if st.Selection != nil {
		if elev, ok := v.store.ModuleElevation(st.Selection.ID); ok {
			sel = fmt.Sprintf(" | floor +%.2fm", elev)
		}
	}
	line := fmt.Sprintf(" %s %s | modules %d props %d%s | tool %s | undo %d | v view r roofs u/U undo/redo +/- zoom q quit",
		v.Step(), sky, len(st.Modules), len(st.Props), sel, tool, st.HistoryDepth)

	style := tcell.StyleDefault.Reverse(true)
	for x, r := range []rune(line) {
		if x >= w {
			break
		}
		v.screen.SetContent(x, row, r, nil, style)
	}
}
