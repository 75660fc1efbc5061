package store

import "modulmate/internal/editor/models"

// MaxHistory: глубина истории undo.
const MaxHistory = 50

// ============================================================
// Snapshot
// ============================================================

// Snapshot: версионируемая часть состояния: модули и пропы.
// Выделение, инструмент и окружение в снимок не входят.
type Snapshot struct {
	Modules []models.Module `json:"modules"`
	Props   []models.Prop   `json:"props"`
}

// Clone делает структурную копию без общих ссылок с исходником.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Modules: make([]models.Module, len(s.Modules)),
		Props:   make([]models.Prop, len(s.Props)),
	}
	for i, m := range s.Modules {
		out.Modules[i] = m.Clone()
	}
	for i, p := range s.Props {
		out.Props[i] = p.Clone()
	}
	return out
}

// ============================================================
// History
// ============================================================

// History хранит снимки для undo/redo с ограниченной глубиной.
type History struct {
	past     []Snapshot
	future   []Snapshot
	maxDepth int
}

func NewHistory(maxDepth int) *History {
	return &History{
		past:     make([]Snapshot, 0, maxDepth),
		future:   make([]Snapshot, 0),
		maxDepth: maxDepth,
	}
}

// Push сохраняет копию состояния перед мутацией. Самый старый снимок вытесняется,
// redo-стек очищается.
func (h *History) Push(current Snapshot) {
	h.past = append(h.past, current.Clone())
	if len(h.past) > h.maxDepth {
		h.past = h.past[len(h.past)-h.maxDepth:]
	}
	h.future = h.future[:0]
}

// Undo возвращает предыдущий снимок и откладывает current в redo-стек.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.past) == 0 {
		return Snapshot{}, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current.Clone())
	return prev, true
}

// Redo возвращает последний отмененный снимок и кладет current обратно в past.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.future) == 0 {
		return Snapshot{}, false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current.Clone())
	if len(h.past) > h.maxDepth {
		h.past = h.past[len(h.past)-h.maxDepth:]
	}
	return next, true
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }
func (h *History) Depth() int    { return len(h.past) }
func (h *History) Pending() int  { return len(h.future) }

func (h *History) Clear() {
	h.past = h.past[:0]
	h.future = h.future[:0]
}
