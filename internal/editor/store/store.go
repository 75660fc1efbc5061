package store

import (
	"sync"

	"github.com/google/uuid"

	"modulmate/internal/editor/models"
)

// ============================================================
// State
// ============================================================

// State: полное состояние редактора, которое видят рендереры.
type State struct {
	Modules             []models.Module      `json:"modules"`
	Props               []models.Prop        `json:"props"`
	Selection           *models.Selection    `json:"selection"`
	HoveredID           string               `json:"hoveredId,omitempty"`
	ActiveTool          models.Tool          `json:"activeTool"`
	PendingDims         *models.Size         `json:"pendingDims,omitempty"`
	ActiveTab           models.TabID         `json:"activeTab"`
	ViewMode            models.ViewMode      `json:"viewMode"`
	TransformMode       models.TransformMode `json:"transformMode"`
	Environment         models.Environment   `json:"environment"`
	DarkMode            bool                 `json:"darkMode"`
	SmartRoof           bool                 `json:"smartRoof"`
	Drag                models.DragState     `json:"dragState"`
	Measure             models.MeasureState  `json:"measureState"`
	ExportStep          models.ExportStep    `json:"exportState"`
	ScreenshotRequested bool                 `json:"screenshotRequested"`

	CanUndo      bool `json:"canUndo"`
	CanRedo      bool `json:"canRedo"`
	HistoryDepth int  `json:"historyDepth"`

	// Version растет на единицу с каждым примененным изменением.
	Version uint64 `json:"version"`
}

func initialState() State {
	return State{
		Modules:       []models.Module{},
		Props:         []models.Prop{},
		ActiveTab:     models.TabStructure,
		ViewMode:      models.View3D,
		TransformMode: models.TransformTranslate,
		Environment:   models.DefaultEnvironment(),
		ExportStep:    models.ExportIdle,
	}
}

// Clone копирует состояние целиком, включая указатели.
func (s State) Clone() State {
	out := s
	snap := Snapshot{Modules: s.Modules, Props: s.Props}.Clone()
	out.Modules, out.Props = snap.Modules, snap.Props
	if s.Selection != nil {
		sel := *s.Selection
		out.Selection = &sel
	}
	if s.PendingDims != nil {
		dims := *s.PendingDims
		out.PendingDims = &dims
	}
	out.Measure = cloneMeasure(s.Measure)
	return out
}

func cloneMeasure(m models.MeasureState) models.MeasureState {
	out := models.MeasureState{Active: m.Active}
	if m.Start != nil {
		p := *m.Start
		out.Start = &p
	}
	if m.End != nil {
		p := *m.End
		out.End = &p
	}
	return out
}

// ============================================================
// Store
// ============================================================

// Observer получает сведения о примененных командах (метрики).
type Observer interface {
	CommandApplied(name string)
	HistoryChanged(depth, pending int)
}

type Option func(*Store)

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

func WithHistoryDepth(depth int) Option {
	return func(s *Store) {
		if depth > 0 {
			s.history = NewHistory(depth)
		}
	}
}

// WithIDGenerator подменяет генератор идентификаторов сущностей.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

type subscriber struct {
	id int
	fn func(State)
}

// notification: изменение, ожидающее рассылки подписчикам и наблюдателю.
type notification struct {
	command string
	view    State
	subs    []func(State)
	depth   int
	pending int
}

// Store: единственный источник правды сцены. Все операции выполняются под одним
// мьютексом и либо применяются целиком, либо не меняют ничего.
type Store struct {
	mu       sync.Mutex
	state    State
	history  *History
	subs     []subscriber
	nextSub  int
	newID    func() string
	observer Observer

	version     uint64
	queue       []notification
	dispatching bool
}

func New(opts ...Option) *Store {
	s := &Store{
		state:   initialState(),
		history: NewHistory(MaxHistory),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutate выполняет fn под блокировкой. Если fn сообщила об изменении,
// подписчики получают новое состояние, а наблюдатель имя команды.
// Уведомления рассылаются строго в порядке изменений: их разбирает одна
// горутина, остальные писатели только ставят свои в очередь.
func (s *Store) mutate(command string, fn func() bool) bool {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}
	s.version++
	n := notification{
		command: command,
		view:    s.viewLocked(),
		subs:    make([]func(State), len(s.subs)),
		depth:   s.history.Depth(),
		pending: s.history.Pending(),
	}
	for i, sub := range s.subs {
		n.subs[i] = sub.fn
	}
	s.queue = append(s.queue, n)
	if s.dispatching {
		s.mu.Unlock()
		return true
	}

	s.dispatching = true
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		s.deliver(next)
		s.mu.Lock()
	}
	s.dispatching = false
	s.mu.Unlock()
	return true
}

func (s *Store) deliver(n notification) {
	if s.observer != nil {
		s.observer.CommandApplied(n.command)
		s.observer.HistoryChanged(n.depth, n.pending)
	}
	for _, fn := range n.subs {
		fn(n.view.Clone())
	}
}

func (s *Store) viewLocked() State {
	view := s.state.Clone()
	view.CanUndo = s.history.CanUndo()
	view.CanRedo = s.history.CanRedo()
	view.HistoryDepth = s.history.Depth()
	view.Version = s.version
	return view
}

// State возвращает глубокую копию текущего состояния.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Snapshot возвращает копию версионируемой части состояния.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Modules: s.state.Modules, Props: s.state.Props}.Clone()
}

// Subscribe регистрирует слушателя изменений. Возвращает функцию отписки.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// ============================================================
// History
// ============================================================

func (s *Store) pushLocked() {
	s.history.Push(Snapshot{Modules: s.state.Modules, Props: s.state.Props})
}

// PushHistory сохраняет снимок явно. Нужен перед серией непрерывных правок
// (UpdateModulePosition, UpdatePropSize и т.п.), которые историю не пишут.
func (s *Store) PushHistory() {
	s.mutate("push_history", func() bool {
		s.pushLocked()
		return true
	})
}

// Undo восстанавливает предыдущий снимок. Пустая история: не ошибка.
func (s *Store) Undo() bool {
	return s.mutate("undo", func() bool {
		prev, ok := s.history.Undo(Snapshot{Modules: s.state.Modules, Props: s.state.Props})
		if !ok {
			return false
		}
		s.state.Modules, s.state.Props = prev.Modules, prev.Props
		return true
	})
}

func (s *Store) Redo() bool {
	return s.mutate("redo", func() bool {
		next, ok := s.history.Redo(Snapshot{Modules: s.state.Modules, Props: s.state.Props})
		if !ok {
			return false
		}
		s.state.Modules, s.state.Props = next.Modules, next.Props
		return true
	})
}

// ============================================================
// Lookup helpers (вызываются под блокировкой)
// ============================================================

func (s *Store) moduleIndex(id string) int {
	for i, m := range s.state.Modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) propIndex(id string) int {
	for i, p := range s.state.Props {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// wallRef: найденная стена и способ записать ее обратно.
type wallRef struct {
	data models.WallData
	set  func(models.WallData)
}

// findWall ищет стену модуля, если задана сторона, иначе перегородку-проп.
func (s *Store) findWall(id string, side models.WallSide) (wallRef, bool) {
	if side != "" {
		i := s.moduleIndex(id)
		if i < 0 {
			return wallRef{}, false
		}
		wall, ok := s.state.Modules[i].Walls[side]
		if !ok {
			return wallRef{}, false
		}
		return wallRef{
			data: wall,
			set:  func(w models.WallData) { s.state.Modules[i].Walls[side] = w },
		}, true
	}

	i := s.propIndex(id)
	if i < 0 || s.state.Props[i].WallData == nil {
		return wallRef{}, false
	}
	return wallRef{
		data: *s.state.Props[i].WallData,
		set: func(w models.WallData) {
			s.state.Props[i].WallData = &w
		},
	}, true
}
