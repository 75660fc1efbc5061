package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"

	"modulmate/internal/editor/export"
	"modulmate/internal/editor/models"
	"modulmate/internal/editor/render"
	"modulmate/internal/editor/repository"
	"modulmate/internal/editor/service"
	"modulmate/internal/editor/store"
)

// ============================================================
// Editor Handler
// ============================================================

type EditorHandler struct {
	store     *store.Store
	repo      *repository.Repository
	storage   service.Storage
	sequencer *export.Sequencer
	capture   render.CaptureOptions
}

func NewEditorHandler(st *store.Store, repo *repository.Repository, storage service.Storage, sequencer *export.Sequencer, capture render.CaptureOptions) *EditorHandler {
	return &EditorHandler{
		store:     st,
		repo:      repo,
		storage:   storage,
		sequencer: sequencer,
		capture:   capture,
	}
}

// Routes регистрирует маршруты редактора.
func (h *EditorHandler) Routes(r fiber.Router) {
	r.Get("/state", h.GetState)
	r.Post("/commands", h.PostCommand)
	r.Get("/geometry", h.GetGeometry)
	r.Get("/measure", h.GetMeasure)

	r.Get("/project", h.SaveProject)
	r.Post("/project", h.LoadProject)

	r.Get("/projects", h.ListProjects)
	r.Post("/projects", h.CreateProject)
	r.Get("/projects/:id", h.GetProject)
	r.Post("/projects/:id/open", h.OpenProject)
	r.Delete("/projects/:id", h.DeleteProject)

	r.Post("/export", h.StartExport)
	r.Get("/export", h.GetExport)
	r.Delete("/export", h.CancelExport)
	r.Get("/captures", h.ListCaptures)
	r.Get("/captures/*", h.GetCapture)

	r.Get("/plan.svg", h.GetPlanSVG)
	r.Get("/views/:step", h.GetView)
}

func (h *EditorHandler) GetState(c fiber.Ctx) error {
	return c.JSON(h.store.State())
}

// PostCommand применяет одну команду и возвращает новое состояние.
func (h *EditorHandler) PostCommand(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var cmd Command
	if err := json.Unmarshal(c.Body(), &cmd); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	res, err := Dispatch(h.store, cmd)
	if err != nil {
		log.Printf("[EDITOR] command %q rejected: %v", cmd.Type, err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

func (h *EditorHandler) GetGeometry(c fiber.Ctx) error {
	return c.JSON(h.store.Geometry())
}

func (h *EditorHandler) GetMeasure(c fiber.Ctx) error {
	d, ok := h.store.MeasuredDistance()
	if !ok {
		return c.JSON(fiber.Map{"complete": false})
	}
	return c.JSON(fiber.Map{"complete": true, "distance": d})
}

// ============================================================
// Project file
// ============================================================

// SaveProject отдает файл проекта {modules, props, environment}.
func (h *EditorHandler) SaveProject(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.store.SaveProject(&buf); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", `attachment; filename="project.json"`)
	return c.Send(buf.Bytes())
}

// LoadProject заменяет сцену содержимым файла. Битый файл состояние не меняет.
func (h *EditorHandler) LoadProject(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}
	if err := h.store.LoadProject(bytes.NewReader(c.Body())); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(h.store.State())
}

// ============================================================
// Saved projects
// ============================================================

type createProjectRequest struct {
	Name string `json:"name"`
}

func (h *EditorHandler) ListProjects(c fiber.Ctx) error {
	list, err := h.repo.List(context.Background())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(list)
}

// CreateProject сохраняет текущую сцену под именем.
func (h *EditorHandler) CreateProject(c fiber.Ctx) error {
	var req createProjectRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}

	rec, err := h.repo.Save(context.Background(), req.Name, h.store.Project())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	rec.Payload = nil
	return c.Status(http.StatusCreated).JSON(rec)
}

func (h *EditorHandler) GetProject(c fiber.Ctx) error {
	rec, err := h.repo.GetByID(context.Background(), c.Params("id"))
	if err != nil {
		return h.repoError(c, err)
	}
	return c.JSON(rec)
}

// OpenProject загружает сохраненный проект в стор (с записью в историю).
func (h *EditorHandler) OpenProject(c fiber.Ctx) error {
	rec, err := h.repo.GetByID(context.Background(), c.Params("id"))
	if err != nil {
		return h.repoError(c, err)
	}
	p, err := store.DecodeProject(rec.Payload)
	if err != nil {
		log.Printf("[EDITOR] stored project %s is malformed: %v", rec.ID, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	h.store.Import(p)
	return c.JSON(h.store.State())
}

func (h *EditorHandler) DeleteProject(c fiber.Ctx) error {
	if err := h.repo.Delete(context.Background(), c.Params("id")); err != nil {
		return h.repoError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *EditorHandler) repoError(c fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// ============================================================
// Export & captures
// ============================================================

// StartExport запускает экспорт ракурсов в фоне.
func (h *EditorHandler) StartExport(c fiber.Ctx) error {
	id, err := h.sequencer.Start(context.Background())
	if errors.Is(err, export.ErrBusy) {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"id": id})
}

func (h *EditorHandler) GetExport(c fiber.Ctx) error {
	return c.JSON(h.sequencer.Status())
}

func (h *EditorHandler) CancelExport(c fiber.Ctx) error {
	h.sequencer.Cancel()
	return c.JSON(h.sequencer.Status())
}

func (h *EditorHandler) ListCaptures(c fiber.Ctx) error {
	list, err := h.storage.List(context.Background(), c.Query("prefix"))
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if list == nil {
		list = []service.Info{}
	}
	return c.JSON(list)
}

func (h *EditorHandler) GetCapture(c fiber.Ctx) error {
	key := c.Params("*")
	data, info, err := service.ReadAll(context.Background(), h.storage, key)
	if errors.Is(err, service.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "capture not found"})
	}
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set("Content-Type", contentType)
	return c.Send(data)
}

// ============================================================
// Live views
// ============================================================

func (h *EditorHandler) GetPlanSVG(c fiber.Ctx) error {
	scene := h.store.Geometry()
	svg, err := render.NewSVGRenderer().Render(&scene, h.store.Snapshot().Modules)
	if err != nil {
		log.Printf("[RENDER] Render error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// GetView рисует PNG одного ракурса (top|north|south|east|west) без сохранения.
func (h *EditorHandler) GetView(c fiber.Ctx) error {
	step := models.ExportStep(c.Params("step"))
	data, err := render.CapturePNGBytes(h.store.Geometry(), step, h.capture)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set("Content-Type", "image/png")
	return c.Send(data)
}
