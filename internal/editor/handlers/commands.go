package handlers

import (
	"errors"
	"fmt"

	"modulmate/internal/editor/models"
	"modulmate/internal/editor/store"
)

// ============================================================
// Command Dispatch
// ============================================================

var errBadCommand = errors.New("bad command")

// Command: одна операция над стором. Поля используются в зависимости от Type.
type Command struct {
	Type      string            `json:"type"`
	ID        string            `json:"id,omitempty"`
	Side      models.WallSide   `json:"side,omitempty"`
	OpeningID string            `json:"openingId,omitempty"`
	Kind      models.ModuleKind `json:"kind,omitempty"`
	Value     string            `json:"value,omitempty"`

	X        float64      `json:"x,omitempty"`
	Z        float64      `json:"z,omitempty"`
	RelX     float64      `json:"relX,omitempty"`
	Delta    float64      `json:"delta,omitempty"`
	Rotation float64      `json:"rotation,omitempty"`
	Axis     store.Axis   `json:"axis,omitempty"`
	Point    *[3]float64  `json:"point,omitempty"`
	Vector   *[3]float64  `json:"vector,omitempty"`
	Offset   [2]float64   `json:"offset,omitempty"`
	Size     *models.Size `json:"size,omitempty"`

	Angle    *float64 `json:"angle,omitempty"`
	Overhang *float64 `json:"overhang,omitempty"`
	Active   *bool    `json:"active,omitempty"`
	IsStart  bool     `json:"isStart,omitempty"`

	Selection   *models.Selection        `json:"selection,omitempty"`
	Opening     *models.OpeningPatch     `json:"opening,omitempty"`
	Cutout      *models.CutoutPatch      `json:"cutout,omitempty"`
	Environment *models.EnvironmentPatch `json:"environment,omitempty"`
}

// CommandResult: ответ на команду. ID заполняется для команд, создающих сущности.
type CommandResult struct {
	Changed bool        `json:"changed"`
	ID      string      `json:"id,omitempty"`
	State   store.State `json:"state"`
}

func badCommand(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadCommand, fmt.Sprintf(format, args...))
}

// side проверяет сторону стены. Пустая сторона адресует перегородку-проп,
// кроме click_wall, где клик всегда приходит в стену модуля.
func (c Command) side() (models.WallSide, error) {
	if c.Side == "" && c.Type != "click_wall" {
		return "", nil
	}
	if !c.Side.Valid() {
		return "", badCommand("invalid side %q", c.Side)
	}
	return c.Side, nil
}

func (c Command) requireID() error {
	if c.ID == "" {
		return badCommand("%s: id required", c.Type)
	}
	return nil
}

// Dispatch применяет команду к стору. Ошибка возвращается только для
// некорректного запроса. Отсутствующие сущности дают Changed=false.
func Dispatch(st *store.Store, c Command) (CommandResult, error) {
	var (
		changed = true
		id      string
	)

	switch c.Type {
	// история
	case "undo":
		changed = st.Undo()
	case "redo":
		changed = st.Redo()
	case "push_history":
		st.PushHistory()

	// модули
	case "add_module":
		if c.Size == nil {
			return CommandResult{}, badCommand("add_module: size required")
		}
		id = st.AddModule(moduleKind(c.Kind), c.X, c.Z, *c.Size)
	case "start_module_placement":
		if c.Size == nil {
			return CommandResult{}, badCommand("start_module_placement: size required")
		}
		st.StartModulePlacement(c.Size.W, c.Size.D, c.Size.H)
	case "spawn_module":
		id = st.SpawnModule(c.X, c.Z, moduleKind(c.Kind))
	case "start_level_placement":
		st.StartLevelPlacement()
	case "spawn_level":
		if err := c.requireID(); err != nil {
			return CommandResult{}, err
		}
		id, changed = st.SpawnLevelOnTop(c.ID)
	case "update_module_position":
		changed = st.UpdateModulePosition(c.ID, c.X, c.Z)
	case "update_module_rotation":
		changed = st.UpdateModuleRotation(c.ID, c.Rotation)
	case "update_module_size":
		if c.Size == nil {
			return CommandResult{}, badCommand("update_module_size: size required")
		}
		changed = st.UpdateModuleSize(c.ID, c.Size.W, c.Size.D)
	case "set_module_color":
		changed = st.SetModuleColor(c.ID, c.Value)
	case "move_module":
		if c.Axis != store.AxisX && c.Axis != store.AxisZ {
			return CommandResult{}, badCommand("move_module: invalid axis %q", c.Axis)
		}
		changed = st.MoveModule(c.ID, c.Axis, c.Delta)
	case "set_roof":
		changed = st.SetRoof(c.ID, models.RoofType(c.Value), c.Angle, c.Overhang)
	case "set_floor":
		changed = st.SetFloor(c.ID, models.FloorType(c.Value))
	case "set_all_roofs":
		changed = st.SetAllRoofs(models.RoofType(c.Value))
	case "clear_all":
		st.ClearAll()

	// стены и проемы
	case "set_wall_material", "set_wall_structure", "set_wall_cover_frame", "add_opening", "remove_opening", "update_opening", "click_wall":
		side, err := c.side()
		if err != nil {
			return CommandResult{}, err
		}
		id, changed, err = dispatchWall(st, c, side)
		if err != nil {
			return CommandResult{}, err
		}

	case "click_internal_wall":
		if err := c.requireID(); err != nil {
			return CommandResult{}, err
		}
		changed = st.ClickInternalWall(c.ID, c.RelX)

	// предметы
	case "add_prop":
		typ := models.PropType(c.Value)
		if !typ.IsPlaceable() {
			return CommandResult{}, badCommand("add_prop: unknown prop %q", c.Value)
		}
		id = st.AddProp(typ, c.Vector, c.Rotation)
	case "update_prop_position":
		if c.Vector == nil {
			return CommandResult{}, badCommand("update_prop_position: vector required")
		}
		changed = st.UpdatePropPosition(c.ID, *c.Vector)
	case "update_prop_rotation":
		changed = st.UpdatePropRotation(c.ID, c.Rotation)
	case "update_prop_size":
		if c.Vector == nil {
			return CommandResult{}, badCommand("update_prop_size: vector required")
		}
		changed = st.UpdatePropSize(c.ID, *c.Vector)
	case "update_prop_cutout":
		if c.Cutout == nil {
			return CommandResult{}, badCommand("update_prop_cutout: cutout required")
		}
		changed = st.UpdatePropCutout(c.ID, *c.Cutout)

	// выделение
	case "select":
		st.Select(c.Selection)
	case "set_hovered":
		st.SetHovered(c.ID)
	case "remove_selection":
		changed = st.RemoveSelection()
	case "duplicate_selection":
		id, changed = st.DuplicateSelection()
	case "rotate_selection":
		changed = st.RotateSelection()

	// инструменты и клики
	case "set_tool":
		tool, err := models.ParseTool(c.Value)
		if err != nil {
			return CommandResult{}, badCommand("set_tool: %v", err)
		}
		st.SetActiveTool(tool)
	case "click_floor":
		if c.Point == nil {
			return CommandResult{}, badCommand("click_floor: point required")
		}
		changed = st.ClickFloor(c.ID, *c.Point)
	case "click_ground":
		changed = st.ClickGround(c.X, c.Z, moduleKind(c.Kind))
	case "set_measure_active":
		st.SetMeasureActive(c.Active != nil && *c.Active)
	case "set_measure_point":
		st.SetMeasurePoint(c.Point, c.IsStart)

	// перетаскивание
	case "start_drag":
		changed = st.StartDrag(c.ID, models.DragKind(c.Value), c.Offset)
	case "update_drag":
		changed = st.UpdateDrag(c.X, c.Z)
	case "end_drag":
		st.EndDrag()

	// окружение и интерфейс
	case "set_environment":
		if c.Environment == nil {
			return CommandResult{}, badCommand("set_environment: environment required")
		}
		st.SetEnvironment(*c.Environment)
	case "toggle_dark_mode":
		st.ToggleDarkMode()
	case "toggle_smart_roof":
		st.ToggleSmartRoof()
	case "set_transform_mode":
		st.SetTransformMode(models.TransformMode(c.Value))
	case "set_tab":
		st.SetTab(models.TabID(c.Value))
	case "set_view_mode":
		st.SetViewMode(models.ViewMode(c.Value))
	case "request_screenshot":
		st.RequestScreenshot()
	case "clear_screenshot_request":
		st.ClearScreenshotRequest()

	default:
		return CommandResult{}, badCommand("unknown command %q", c.Type)
	}

	return CommandResult{Changed: changed, ID: id, State: st.State()}, nil
}

func dispatchWall(st *store.Store, c Command, side models.WallSide) (string, bool, error) {
	switch c.Type {
	case "set_wall_material":
		return "", st.SetWallMaterial(c.ID, side, c.Value), nil
	case "set_wall_structure":
		structure := models.WallStructure(c.Value)
		if !structure.Valid() {
			return "", false, badCommand("set_wall_structure: invalid structure %q", c.Value)
		}
		return "", st.SetWallStructure(c.ID, side, structure), nil
	case "set_wall_cover_frame":
		return "", st.SetWallCoverFrame(c.ID, side, c.Active != nil && *c.Active), nil
	case "add_opening":
		typ := models.OpeningType(c.Value)
		if !typ.Valid() {
			return "", false, badCommand("add_opening: invalid opening type %q", c.Value)
		}
		var x, y *float64
		if c.Opening != nil {
			x, y = c.Opening.X, c.Opening.Y
		}
		id, ok := st.AddOpening(c.ID, side, typ, x, y)
		return id, ok, nil
	case "remove_opening":
		return "", st.RemoveOpening(c.ID, side, c.OpeningID), nil
	case "update_opening":
		if c.Opening == nil {
			return "", false, badCommand("update_opening: opening required")
		}
		return "", st.UpdateOpening(c.ID, side, c.OpeningID, *c.Opening), nil
	case "click_wall":
		return "", st.ClickWall(c.ID, side, c.RelX), nil
	}
	return "", false, badCommand("unknown wall command %q", c.Type)
}

func moduleKind(k models.ModuleKind) models.ModuleKind {
	if k == models.KindTerrace {
		return k
	}
	return models.KindLiving
}
