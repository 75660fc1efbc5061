package models

import (
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// ============================================================
// Enums
// ============================================================

type WallSide string

const (
	SideNorth WallSide = "north"
	SideSouth WallSide = "south"
	SideEast  WallSide = "east"
	SideWest  WallSide = "west"
)

// Sides перечисляет стороны модуля в фиксированном порядке.
var Sides = []WallSide{SideNorth, SideSouth, SideEast, SideWest}

func (s WallSide) Valid() bool {
	switch s {
	case SideNorth, SideSouth, SideEast, SideWest:
		return true
	}
	return false
}

type ModuleKind string

const (
	KindLiving  ModuleKind = "living"
	KindTerrace ModuleKind = "terrace"
)

type RoofType string

const (
	RoofNone  RoofType = "none"
	RoofFlat  RoofType = "flat"
	RoofGable RoofType = "gable"
	RoofPent  RoofType = "pent"
)

type FloorType string

const (
	FloorWood     FloorType = "wood"
	FloorTile     FloorType = "tile"
	FloorVinyl    FloorType = "vinyl"
	FloorConcrete FloorType = "concrete"
	FloorDecking  FloorType = "decking"
)

type WallStructure string

const (
	StructureSmooth WallStructure = "smooth"
	StructurePlank  WallStructure = "plank"
	StructureWave   WallStructure = "wave"
	StructureBrick  WallStructure = "brick"
	StructureWoodV  WallStructure = "wood_v"
)

func (s WallStructure) Valid() bool {
	switch s {
	case StructureSmooth, StructurePlank, StructureWave, StructureBrick, StructureWoodV:
		return true
	}
	return false
}

type OpeningType string

const (
	WindowStd      OpeningType = "window_std"
	WindowPano     OpeningType = "window_pano"
	WindowSkylight OpeningType = "window_skylight"
	DoorInterior   OpeningType = "door_interior"
	DoorExterior   OpeningType = "door_exterior"
	DoorBalcony    OpeningType = "door_balcony"
	DoorSliding    OpeningType = "door_sliding"
	WallGlass      OpeningType = "wall_glass"
)

// IsDoor сообщает, относится ли проем к дверям.
func (t OpeningType) IsDoor() bool {
	return strings.Contains(string(t), "door")
}

// Defaults возвращает ширину, высоту и высоту подоконника нового проема.
func (t OpeningType) Defaults() (w, h, sill float64) {
	w, h, sill = 1.0, 1.2, 0.9
	if t.IsDoor() {
		w, h, sill = 0.9, 2.1, 0.05
	}
	switch t {
	case DoorSliding:
		w = 2.0
	case WindowPano:
		w, h, sill = 2.0, 1.5, 0.8
	case WindowSkylight:
		w, h, sill = 1.0, 1.2, 2.0
	case WallGlass:
		w, h, sill = 2.8, 2.4, 0.15
	}
	return w, h, sill
}

func (t OpeningType) Valid() bool {
	switch t {
	case WindowStd, WindowPano, WindowSkylight, DoorInterior, DoorExterior, DoorBalcony, DoorSliding, WallGlass:
		return true
	}
	return false
}

// ============================================================
// Wall & Openings
// ============================================================

// MatOpen означает, что стены физически нет.
const MatOpen = "open"

type Opening struct {
	ID         string      `json:"id"`
	Type       OpeningType `json:"type"`
	X          float64     `json:"x"` // 0..1 вдоль ширины стены
	Y          float64     `json:"y"` // высота подоконника от пола
	W          float64     `json:"w"`
	H          float64     `json:"h"`
	FrameColor string      `json:"frameColor,omitempty"`
	GlassType  string      `json:"glassType,omitempty"`
}

// Значения по умолчанию для рамы и стекла нового проема.
const (
	DefaultFrameColor = "anthracite"
	DefaultGlassType  = "transparent"
)

// OpeningPatch: частичное обновление проема, nil означает "не менять".
type OpeningPatch struct {
	Type       *OpeningType `json:"type,omitempty"`
	X          *float64     `json:"x,omitempty"`
	Y          *float64     `json:"y,omitempty"`
	W          *float64     `json:"w,omitempty"`
	H          *float64     `json:"h,omitempty"`
	FrameColor *string      `json:"frameColor,omitempty"`
	GlassType  *string      `json:"glassType,omitempty"`
}

// Apply накладывает патч на проем; ID не меняется.
func (p OpeningPatch) Apply(op Opening) Opening {
	if p.Type != nil {
		op.Type = *p.Type
	}
	if p.X != nil {
		op.X = *p.X
	}
	if p.Y != nil {
		op.Y = *p.Y
	}
	if p.W != nil {
		op.W = *p.W
	}
	if p.H != nil {
		op.H = *p.H
	}
	if p.FrameColor != nil {
		op.FrameColor = *p.FrameColor
	}
	if p.GlassType != nil {
		op.GlassType = *p.GlassType
	}
	return op
}

type WallData struct {
	Mat        string        `json:"mat"`
	Structure  WallStructure `json:"structure"`
	Openings   []Opening     `json:"openings"`
	CoverFrame bool          `json:"coverFrame,omitempty"`
}

// IsOpen сообщает, что стена отсутствует.
func (w WallData) IsOpen() bool {
	return w.Mat == MatOpen
}

func (w WallData) Clone() WallData {
	out := w
	out.Openings = append([]Opening{}, w.Openings...)
	return out
}

// ============================================================
// Module
// ============================================================

type Size struct {
	W float64 `json:"w"`
	D float64 `json:"d"`
	H float64 `json:"h"`
}

type Grid struct {
	X   float64 `json:"x"`
	Z   float64 `json:"z"`
	Rot float64 `json:"rot"` // радианы
}

// Origin возвращает положение модуля на плоскости XZ.
func (g Grid) Origin() r2.Point {
	return r2.Point{X: g.X, Y: g.Z}
}

type Roof struct {
	Type     RoofType `json:"type"`
	Angle    float64  `json:"angle"` // градусы
	Overhang *float64 `json:"overhang,omitempty"`
}

type Module struct {
	ID    string                `json:"id"`
	Kind  ModuleKind            `json:"kind"`
	Level int                   `json:"level"`
	Size  Size                  `json:"size"`
	Grid  Grid                  `json:"grid"`
	Walls map[WallSide]WallData `json:"walls"`
	Roof  Roof                  `json:"roof"`
	Floor FloorType             `json:"floor"`
	Color string                `json:"color,omitempty"`
}

func (m Module) IsTerrace() bool {
	return m.Kind == KindTerrace
}

// Elevation возвращает отметку пола модуля: высота уровня равна собственной высоте модуля.
func (m Module) Elevation() float64 {
	return float64(m.Level) * m.Size.H
}

// WallWidth возвращает ширину стены стороны side.
func (m Module) WallWidth(side WallSide) float64 {
	if side == SideEast || side == SideWest {
		return m.Size.D
	}
	return m.Size.W
}

// Clone делает глубокую копию модуля.
func (m Module) Clone() Module {
	out := m
	if m.Walls != nil {
		out.Walls = make(map[WallSide]WallData, len(m.Walls))
		for side, wall := range m.Walls {
			out.Walls[side] = wall.Clone()
		}
	}
	if m.Roof.Overhang != nil {
		v := *m.Roof.Overhang
		out.Roof.Overhang = &v
	}
	return out
}

// ============================================================
// Props
// ============================================================

type CutoutModifiers struct {
	OffsetW float64 `json:"offsetW"`
	OffsetD float64 `json:"offsetD"`
	OffsetX float64 `json:"offsetX"`
	OffsetZ float64 `json:"offsetZ"`
}

type CutoutPatch struct {
	OffsetW *float64 `json:"offsetW,omitempty"`
	OffsetD *float64 `json:"offsetD,omitempty"`
	OffsetX *float64 `json:"offsetX,omitempty"`
	OffsetZ *float64 `json:"offsetZ,omitempty"`
}

func (p CutoutPatch) Apply(m CutoutModifiers) CutoutModifiers {
	if p.OffsetW != nil {
		m.OffsetW = *p.OffsetW
	}
	if p.OffsetD != nil {
		m.OffsetD = *p.OffsetD
	}
	if p.OffsetX != nil {
		m.OffsetX = *p.OffsetX
	}
	if p.OffsetZ != nil {
		m.OffsetZ = *p.OffsetZ
	}
	return m
}

type Prop struct {
	ID              string           `json:"id"`
	Type            PropType         `json:"type"`
	Pos             [3]float64       `json:"pos"`
	Rot             float64          `json:"rot"`
	Size            *[3]float64      `json:"size,omitempty"`
	WallData        *WallData        `json:"wallData,omitempty"`
	CutoutModifiers *CutoutModifiers `json:"cutoutModifiers,omitempty"`
}

// Position возвращает мировую позицию пропа.
func (p Prop) Position() r3.Vector {
	return r3.Vector{X: p.Pos[0], Y: p.Pos[1], Z: p.Pos[2]}
}

// Modifiers возвращает поправки выреза, нулевые если не заданы.
func (p Prop) Modifiers() CutoutModifiers {
	if p.CutoutModifiers == nil {
		return CutoutModifiers{}
	}
	return *p.CutoutModifiers
}

func (p Prop) Clone() Prop {
	out := p
	if p.Size != nil {
		size := *p.Size
		out.Size = &size
	}
	if p.WallData != nil {
		wd := p.WallData.Clone()
		out.WallData = &wd
	}
	if p.CutoutModifiers != nil {
		mods := *p.CutoutModifiers
		out.CutoutModifiers = &mods
	}
	return out
}

// ============================================================
// Selection
// ============================================================

type SelectionType string

const (
	SelectModule  SelectionType = "module"
	SelectProp    SelectionType = "prop"
	SelectOpening SelectionType = "opening"
)

type Selection struct {
	Type        SelectionType `json:"type"`
	ID          string        `json:"id"`
	SecondaryID string        `json:"secondaryId,omitempty"`
	Side        WallSide      `json:"side,omitempty"`
}

// ============================================================
// Environment & UI state
// ============================================================

type WeatherType string

const (
	WeatherSun  WeatherType = "sun"
	WeatherRain WeatherType = "rain"
	WeatherSnow WeatherType = "snow"
)

type TerrainType string

const (
	TerrainGrass       TerrainType = "grass"
	TerrainForest      TerrainType = "forest"
	TerrainMountain    TerrainType = "mountain"
	TerrainDirt        TerrainType = "dirt"
	TerrainAgriculture TerrainType = "agriculture"
)

type Environment struct {
	Time     float64     `json:"time"`
	Lights   bool        `json:"lights"`
	Weather  WeatherType `json:"weather"`
	Terrain  TerrainType `json:"terrain"`
	ShowGrid bool        `json:"showGrid"`
}

func DefaultEnvironment() Environment {
	return Environment{Time: 12, Lights: false, Weather: WeatherSun, Terrain: TerrainGrass, ShowGrid: true}
}

// IsNight сообщает, что интерьерный свет должен включаться автоматически.
func (e Environment) IsNight() bool {
	return e.Time < 6 || e.Time > 19
}

type EnvironmentPatch struct {
	Time     *float64     `json:"time,omitempty"`
	Lights   *bool        `json:"lights,omitempty"`
	Weather  *WeatherType `json:"weather,omitempty"`
	Terrain  *TerrainType `json:"terrain,omitempty"`
	ShowGrid *bool        `json:"showGrid,omitempty"`
}

// Apply накладывает патч на окружение.
func (p EnvironmentPatch) Apply(env Environment) Environment {
	if p.Time != nil {
		env.Time = *p.Time
	}
	if p.Lights != nil {
		env.Lights = *p.Lights
	}
	if p.Weather != nil {
		env.Weather = *p.Weather
	}
	if p.Terrain != nil {
		env.Terrain = *p.Terrain
	}
	if p.ShowGrid != nil {
		env.ShowGrid = *p.ShowGrid
	}
	return env
}

type DragKind string

const (
	DragModule DragKind = "module"
	DragProp   DragKind = "prop"
)

type DragState struct {
	Active bool       `json:"active"`
	ID     string     `json:"id,omitempty"`
	Kind   DragKind   `json:"type,omitempty"`
	Offset [2]float64 `json:"offset"`
}

type MeasureState struct {
	Active bool        `json:"active"`
	Start  *[3]float64 `json:"start,omitempty"`
	End    *[3]float64 `json:"end,omitempty"`
}

type ExportStep string

const (
	ExportIdle  ExportStep = "idle"
	ExportTop   ExportStep = "top"
	ExportNorth ExportStep = "north"
	ExportSouth ExportStep = "south"
	ExportEast  ExportStep = "east"
	ExportWest  ExportStep = "west"
	ExportDone  ExportStep = "done"
)

// ExportSteps задает порядок шагов экспорта.
var ExportSteps = []ExportStep{ExportIdle, ExportTop, ExportNorth, ExportSouth, ExportEast, ExportWest, ExportDone}

type ViewMode string

const (
	View3D   ViewMode = "3d"
	View2D   ViewMode = "2d"
	ViewTech ViewMode = "tech"
)

type TabID string

const (
	TabStructure TabID = "structure"
	TabWalls     TabID = "walls"
	TabOpenings  TabID = "openings"
	TabInterior  TabID = "interior"
	TabTech      TabID = "tech"
	TabRoof      TabID = "roof"
)

type TransformMode string

const (
	TransformTranslate TransformMode = "translate"
	TransformRotate    TransformMode = "rotate"
)
