package models

import (
	"fmt"
	"strings"
)

// ============================================================
// Tools
// ============================================================

type ToolKind int

const (
	ToolNone ToolKind = iota
	ToolPlaceModule
	ToolPlaceLevel
	ToolPaint      // Value: цвет (#hex) или "open"
	ToolStructure  // Value: WallStructure
	ToolCoverFrame // переключает coverFrame у стены
	ToolOpening    // Value: OpeningType
	ToolProp       // Value: PropType
	ToolMeasure
)

// Tool: активный инструмент редактора. Нулевое значение означает отсутствие инструмента.
type Tool struct {
	Kind  ToolKind
	Value string
}

var NoTool = Tool{}

func PlaceModuleTool() Tool                { return Tool{Kind: ToolPlaceModule} }
func PlaceLevelTool() Tool                 { return Tool{Kind: ToolPlaceLevel} }
func MeasureTool() Tool                    { return Tool{Kind: ToolMeasure} }
func CoverFrameTool() Tool                 { return Tool{Kind: ToolCoverFrame} }
func PaintTool(mat string) Tool            { return Tool{Kind: ToolPaint, Value: mat} }
func StructureTool(s WallStructure) Tool   { return Tool{Kind: ToolStructure, Value: string(s)} }
func OpeningTool(t OpeningType) Tool       { return Tool{Kind: ToolOpening, Value: string(t)} }
func PropTool(t PropType) Tool             { return Tool{Kind: ToolProp, Value: string(t)} }
func (t Tool) IsNone() bool                { return t.Kind == ToolNone }
func (t Tool) OpeningType() OpeningType    { return OpeningType(t.Value) }
func (t Tool) PropType() PropType          { return PropType(t.Value) }
func (t Tool) Structure() WallStructure    { return WallStructure(t.Value) }

// Persistent сообщает, остается ли инструмент активным после применения.
// Покраска стен работает до явного выключения, остальные инструменты одноразовые.
func (t Tool) Persistent() bool {
	switch t.Kind {
	case ToolPaint, ToolStructure, ToolCoverFrame:
		return true
	}
	return false
}

func (t Tool) String() string {
	switch t.Kind {
	case ToolNone:
		return ""
	case ToolPlaceModule:
		return "place_module"
	case ToolPlaceLevel:
		return "place_level"
	case ToolMeasure:
		return "measure"
	case ToolCoverFrame:
		return "cover_frame"
	case ToolPaint:
		return "paint:" + t.Value
	case ToolStructure:
		return "structure:" + t.Value
	case ToolOpening:
		return "opening:" + t.Value
	case ToolProp:
		return "prop:" + t.Value
	}
	return fmt.Sprintf("tool(%d)", int(t.Kind))
}

// ParseTool разбирает имя инструмента. Принимает канонический вид ("paint:#334155")
// и короткие теги ("#334155", "brick", "window_std", "sofa").
func ParseTool(s string) (Tool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoTool, nil
	}

	if kind, value, ok := strings.Cut(s, ":"); ok {
		switch kind {
		case "paint":
			if value == "" {
				return NoTool, fmt.Errorf("paint tool requires material")
			}
			return PaintTool(value), nil
		case "structure":
			if !WallStructure(value).Valid() {
				return NoTool, fmt.Errorf("unknown structure %q", value)
			}
			return StructureTool(WallStructure(value)), nil
		case "opening":
			if !OpeningType(value).Valid() {
				return NoTool, fmt.Errorf("unknown opening type %q", value)
			}
			return OpeningTool(OpeningType(value)), nil
		case "prop":
			if value == "" {
				return NoTool, fmt.Errorf("prop tool requires type")
			}
			return PropTool(PropType(value)), nil
		}
		return NoTool, fmt.Errorf("unknown tool %q", s)
	}

	switch s {
	case "place_module":
		return PlaceModuleTool(), nil
	case "place_level":
		return PlaceLevelTool(), nil
	case "measure":
		return MeasureTool(), nil
	case "cover_frame":
		return CoverFrameTool(), nil
	case MatOpen:
		return PaintTool(MatOpen), nil
	}
	if strings.HasPrefix(s, "#") {
		return PaintTool(s), nil
	}
	if WallStructure(s).Valid() {
		return StructureTool(WallStructure(s)), nil
	}
	if OpeningType(s).Valid() {
		return OpeningTool(OpeningType(s)), nil
	}
	if PropType(s).IsPlaceable() {
		return PropTool(PropType(s)), nil
	}
	return NoTool, fmt.Errorf("unknown tool %q", s)
}

func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tool) UnmarshalText(b []byte) error {
	parsed, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
