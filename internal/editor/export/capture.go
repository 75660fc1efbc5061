package export

import (
	"bytes"
	"context"
	"fmt"

	"modulmate/internal/editor/geometry"
	"modulmate/internal/editor/models"
	"modulmate/internal/editor/render"
	"modulmate/internal/editor/service"
)

// CaptureKey: ключ снимка в хранилище.
func CaptureKey(runID string, step models.ExportStep) string {
	return fmt.Sprintf("%s/bauplan-%s.png", runID, step)
}

// StorageCapturer рисует ракурс через render и кладет PNG в хранилище.
type StorageCapturer struct {
	storage service.Storage
	opts    render.CaptureOptions
}

func NewStorageCapturer(storage service.Storage, opts render.CaptureOptions) *StorageCapturer {
	return &StorageCapturer{storage: storage, opts: opts}
}

func (c *StorageCapturer) Capture(ctx context.Context, runID string, step models.ExportStep, scene geometry.Scene) (service.Info, error) {
	data, err := render.CapturePNGBytes(scene, step, c.opts)
	if err != nil {
		return service.Info{}, fmt.Errorf("render: %w", err)
	}
	info, err := c.storage.Put(ctx, CaptureKey(runID, step), bytes.NewReader(data), "image/png")
	if err != nil {
		return service.Info{}, fmt.Errorf("store: %w", err)
	}
	return info, nil
}
