package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"modulmate/internal/editor/geometry"
	"modulmate/internal/editor/models"
	"modulmate/internal/editor/service"
)

// ============================================================
// Export Sequencer
// ============================================================

// DefaultStepDelay: пауза перед снимком каждого ракурса.
const DefaultStepDelay = 600 * time.Millisecond

var ErrBusy = errors.New("export already running")

// Scene: часть стора, которой управляет экспорт.
type Scene interface {
	StartExportSequence()
	NextExportStep() models.ExportStep
	FinishExport()
	ExportStep() models.ExportStep
	Geometry() geometry.Scene
}

// Capturer снимает один ракурс и сохраняет его.
type Capturer interface {
	Capture(ctx context.Context, runID string, step models.ExportStep, scene geometry.Scene) (service.Info, error)
}

// Observer получает итоги экспорта (метрики).
type Observer interface {
	StepCaptured(step models.ExportStep)
	ExportFinished(status Status, elapsed time.Duration)
}

type Status string

const (
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Run: состояние одного прогона экспорта.
type Run struct {
	ID         string            `json:"id"`
	Status     Status            `json:"status"`
	Step       models.ExportStep `json:"step"`
	Captures   []service.Info    `json:"captures"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt *time.Time        `json:"finishedAt,omitempty"`
}

type Sequencer struct {
	scene    Scene
	capturer Capturer
	delay    time.Duration
	observer Observer

	mu      sync.Mutex
	current *Run
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewSequencer(scene Scene, capturer Capturer, delay time.Duration) *Sequencer {
	if delay <= 0 {
		delay = DefaultStepDelay
	}
	return &Sequencer{scene: scene, capturer: capturer, delay: delay}
}

func (s *Sequencer) SetObserver(o Observer) {
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

// Start запускает экспорт в фоне и возвращает id прогона.
func (s *Sequencer) Start(ctx context.Context) (string, error) {
	run, ctx, err := s.begin(ctx)
	if err != nil {
		return "", err
	}
	go s.loop(ctx, run)
	return run.ID, nil
}

// Run выполняет экспорт синхронно.
func (s *Sequencer) Run(ctx context.Context) (Run, error) {
	run, ctx, err := s.begin(ctx)
	if err != nil {
		return Run{}, err
	}
	s.loop(ctx, run)
	result := s.Status()
	if result.Status != StatusDone {
		return result, fmt.Errorf("export %s: %s", result.Status, result.Error)
	}
	return result, nil
}

// Cancel прерывает текущий прогон и ждет его завершения.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait блокируется до конца текущего прогона.
func (s *Sequencer) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Status возвращает копию последнего прогона.
func (s *Sequencer) Status() Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Run{Status: StatusDone, Step: models.ExportIdle, Captures: []service.Info{}}
	}
	out := *s.current
	out.Captures = append([]service.Info{}, s.current.Captures...)
	return out
}

func (s *Sequencer) begin(ctx context.Context) (*Run, context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil, nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	run := &Run{
		ID:        uuid.NewString(),
		Status:    StatusRunning,
		Step:      models.ExportTop,
		Captures:  []service.Info{},
		StartedAt: time.Now().UTC(),
	}
	s.current = run
	s.cancel = cancel
	s.done = make(chan struct{})

	s.scene.StartExportSequence()
	log.Printf("[EXPORT] run %s started", run.ID)
	return run, ctx, nil
}

func (s *Sequencer) loop(ctx context.Context, run *Run) {
	status, err := s.steps(ctx, run)
	s.scene.FinishExport()

	s.mu.Lock()
	now := time.Now().UTC()
	run.Status = status
	run.Step = models.ExportIdle
	run.FinishedAt = &now
	if err != nil {
		run.Error = err.Error()
	}
	observer := s.observer
	elapsed := now.Sub(run.StartedAt)
	done := s.done
	s.cancel()
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if err != nil {
		log.Printf("[EXPORT] run %s %s: %v", run.ID, status, err)
	} else {
		log.Printf("[EXPORT] run %s done: %d captures in %s", run.ID, len(run.Captures), elapsed)
	}
	if observer != nil {
		observer.ExportFinished(status, elapsed)
	}
	close(done)
}

func (s *Sequencer) steps(ctx context.Context, run *Run) (Status, error) {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	for step := s.scene.ExportStep(); step != models.ExportDone && step != models.ExportIdle; {
		select {
		case <-ctx.Done():
			return StatusCancelled, ctx.Err()
		case <-timer.C:
		}

		info, err := s.capturer.Capture(ctx, run.ID, step, s.scene.Geometry())
		if err != nil {
			if ctx.Err() != nil {
				return StatusCancelled, ctx.Err()
			}
			return StatusFailed, fmt.Errorf("capture %s: %w", step, err)
		}

		s.mu.Lock()
		run.Captures = append(run.Captures, info)
		observer := s.observer
		s.mu.Unlock()
		if observer != nil {
			observer.StepCaptured(step)
		}

		step = s.scene.NextExportStep()
		s.mu.Lock()
		run.Step = step
		s.mu.Unlock()
		timer.Reset(s.delay)
	}
	return StatusDone, nil
}
