package models

import "strings"

// ============================================================
// Prop Types
// ============================================================

// PropType: открытый строковый тег типа пропа. Известные типы перечислены ниже,
// неизвестные допускаются и ведут себя как мебель без размеров.
type PropType string

const (
	PropWallInternal PropType = "wall_internal"
	PropSolar        PropType = "solar"
	PropSofa         PropType = "sofa"
	PropKitchen      PropType = "kitchen"
	PropBed          PropType = "bed"
	PropWardrobe     PropType = "wardrobe"
	PropWC           PropType = "wc"
	PropShower       PropType = "shower"
	PropTub          PropType = "tub"
	PropSink         PropType = "sink"
	PropLight        PropType = "light"
	PropSwitch       PropType = "switch"
	PropSocket       PropType = "socket"
	PropHeatPump     PropType = "heatpump"
	PropAC           PropType = "ac"

	PropStairStraight PropType = "stair_straight"
	PropStairSpiral   PropType = "stair_spiral"
	PropStairL        PropType = "stair_l_shape"
	PropStairU        PropType = "stair_u_shape"
)

// StairPrefix: общий префикс всех лестниц.
const StairPrefix = "stair_"

// PlaceableProps: типы, которые можно поставить инструментом на пол.
var PlaceableProps = []PropType{
	PropKitchen, PropSofa, PropBed, PropWardrobe, PropWC, PropShower, PropTub, PropSink,
	PropLight, PropSwitch, PropSocket, PropHeatPump, PropAC,
	PropStairStraight, PropStairSpiral, PropStairL, PropStairU,
	PropWallInternal, PropSolar,
}

func (t PropType) IsStair() bool {
	return strings.HasPrefix(string(t), StairPrefix)
}

func (t PropType) IsPlaceable() bool {
	for _, p := range PlaceableProps {
		if p == t {
			return true
		}
	}
	return false
}

// StairKind определяет топологию лестницы для выреза в перекрытии.
type StairKind int

const (
	StairStraight StairKind = iota
	StairSpiral
	StairL
	StairU
)

// StairKind возвращает топологию; любой незнакомый stair_* считается прямой лестницей.
func (t PropType) StairKind() StairKind {
	switch t {
	case PropStairSpiral:
		return StairSpiral
	case PropStairL:
		return StairL
	case PropStairU:
		return StairU
	default:
		return StairStraight
	}
}

// DefaultPropSize возвращает начальный размер [w, h, d] для типов с размерами.
func DefaultPropSize(t PropType) (*[3]float64, bool) {
	var size [3]float64
	switch t {
	case PropWallInternal:
		size = [3]float64{2.0, 2.8, 0.1}
	case PropSolar:
		size = [3]float64{1.6, 0.05, 1.0}
	case PropSofa:
		size = [3]float64{2.2, 0.8, 0.9}
	case PropKitchen:
		size = [3]float64{2.4, 0.9, 0.6}
	case PropBed:
		size = [3]float64{1.6, 0.5, 2.1}
	case PropWardrobe:
		size = [3]float64{1.2, 2.2, 0.6}
	case PropWC:
		size = [3]float64{0.4, 0.8, 0.55}
	case PropShower:
		size = [3]float64{1.0, 2.0, 1.0}
	case PropTub:
		size = [3]float64{1.7, 0.6, 0.8}
	case PropSink:
		size = [3]float64{1.0, 0.85, 0.5}
	case PropStairStraight:
		size = [3]float64{1.0, 2.8, 3.2}
	case PropStairSpiral:
		size = [3]float64{1.6, 2.8, 1.6}
	case PropStairL, PropStairU:
		size = [3]float64{2.0, 2.8, 2.0}
	default:
		return nil, false
	}
	return &size, true
}

// DefaultInternalWall: оболочка новой внутренней перегородки.
func DefaultInternalWall() *WallData {
	return &WallData{Mat: "plaster_white", Structure: StructureSmooth, Openings: []Opening{}}
}
