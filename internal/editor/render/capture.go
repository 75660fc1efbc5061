package render

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/golang/geo/r2"

	"modulmate/internal/editor/geometry"
	"modulmate/internal/editor/models"
)

// ============================================================
// Orthographic captures
// ============================================================

// CaptureOptions: параметры ортографического снимка.
type CaptureOptions struct {
	Size       int     // сторона квадратного кадра, px
	Scale      float64 // px на метр
	Background string
	Outline    string
}

func DefaultCaptureOptions() CaptureOptions {
	return CaptureOptions{Size: 1024, Scale: 20, Background: "#ffffff", Outline: "#333333"}
}

// Capture рисует вид шага step. Сцена центрируется в кадре, масштаб фиксирован.
func Capture(scene geometry.Scene, step models.ExportStep, opts CaptureOptions) (image.Image, error) {
	dc, err := draw(scene, step, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// CapturePNG рисует вид и пишет его в w как PNG.
func CapturePNG(w io.Writer, scene geometry.Scene, step models.ExportStep, opts CaptureOptions) error {
	dc, err := draw(scene, step, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// CapturePNGBytes: CapturePNG в буфер.
func CapturePNGBytes(scene geometry.Scene, step models.ExportStep, opts CaptureOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := CapturePNG(&buf, scene, step, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func draw(scene geometry.Scene, step models.ExportStep, opts CaptureOptions) (*gg.Context, error) {
	view, err := Project(scene, step)
	if err != nil {
		return nil, err
	}
	if opts.Size <= 0 || opts.Scale <= 0 {
		return nil, fmt.Errorf("invalid capture size %d or scale %v", opts.Size, opts.Scale)
	}

	dc := gg.NewContext(opts.Size, opts.Size)

	size := float64(opts.Size)
	dc.SetHexColor(opts.Background)
	dc.DrawRectangle(0, 0, size, size)
	if err := dc.Fill(); err != nil {
		dc.Close()
		return nil, fmt.Errorf("fill background: %w", err)
	}

	toPixel := viewport(view, opts)
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetLineWidth(1)

	for _, p := range view.Polygons {
		if len(p.Outer) < 3 {
			continue
		}
		trace(dc, p.Outer, toPixel)
		for _, h := range p.Holes {
			trace(dc, h, toPixel)
		}
		dc.SetHexColor(p.Fill)
		if err := dc.FillPreserve(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("fill %s: %w", p.ID, err)
		}
		dc.SetHexColor(opts.Outline)
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("stroke %s: %w", p.ID, err)
		}
	}
	return dc, nil
}

// viewport переводит координаты вида (м) в пиксели кадра.
func viewport(view View, opts CaptureOptions) func(r2.Point) (float64, float64) {
	center := r2.Point{}
	if b := view.Bounds(); !b.IsEmpty() {
		center = b.Center()
	}
	half := float64(opts.Size) / 2
	return func(p r2.Point) (float64, float64) {
		d := p.Sub(center).Mul(opts.Scale)
		if view.YUp {
			return half + d.X, half - d.Y
		}
		return half + d.X, half + d.Y
	}
}

func trace(dc *gg.Context, path geometry.Path, toPixel func(r2.Point) (float64, float64)) {
	x, y := toPixel(path[0])
	dc.MoveTo(x, y)
	for _, p := range path[1:] {
		x, y = toPixel(p)
		dc.LineTo(x, y)
	}
	dc.ClosePath()
}
