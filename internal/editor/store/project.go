package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"modulmate/internal/editor/models"
)

// ============================================================
// Project file
// ============================================================

var ErrMalformedProject = errors.New("malformed project")

// Project: плоский снимок проекта для сохранения и загрузки.
type Project struct {
	Modules     []models.Module     `json:"modules"`
	Props       []models.Prop       `json:"props"`
	Environment *models.Environment `json:"environment,omitempty"`
}

// DecodeProject разбирает файл проекта. Ключи modules и props обязательны.
func DecodeProject(data []byte) (Project, error) {
	var raw struct {
		Modules     json.RawMessage `json:"modules"`
		Props       json.RawMessage `json:"props"`
		Environment json.RawMessage `json:"environment"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrMalformedProject, err)
	}
	if isAbsent(raw.Modules) || isAbsent(raw.Props) {
		return Project{}, fmt.Errorf("%w: modules and props are required", ErrMalformedProject)
	}

	var p Project
	if err := json.Unmarshal(raw.Modules, &p.Modules); err != nil {
		return Project{}, fmt.Errorf("%w: modules: %v", ErrMalformedProject, err)
	}
	if err := json.Unmarshal(raw.Props, &p.Props); err != nil {
		return Project{}, fmt.Errorf("%w: props: %v", ErrMalformedProject, err)
	}
	if !isAbsent(raw.Environment) {
		var env models.Environment
		if err := json.Unmarshal(raw.Environment, &env); err != nil {
			return Project{}, fmt.Errorf("%w: environment: %v", ErrMalformedProject, err)
		}
		p.Environment = &env
	}
	return p, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Project возвращает текущий проект вместе с окружением.
func (s *Store) Project() Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLocked()
	env := s.state.Environment
	return Project{Modules: snap.Modules, Props: snap.Props, Environment: &env}
}

// SaveProject пишет {modules, props, environment} в w.
func (s *Store) SaveProject(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(s.Project()); err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	return nil
}

// LoadProject читает проект из r. Некорректный файл логируется и состояние не меняет.
func (s *Store) LoadProject(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		log.Printf("[EDITOR] load project: %v", err)
		return fmt.Errorf("failed to read project: %w", err)
	}
	p, err := DecodeProject(data)
	if err != nil {
		log.Printf("[EDITOR] load project: %v", err)
		return err
	}
	s.Import(p)
	return nil
}

// Import заменяет модули и пропы проектом одним снимком истории.
// Окружение меняется, только если оно есть в проекте.
func (s *Store) Import(p Project) {
	s.mutate("import_project", func() bool {
		s.pushLocked()
		snap := Snapshot{Modules: p.Modules, Props: p.Props}.Clone()
		s.state.Modules, s.state.Props = snap.Modules, snap.Props
		if p.Environment != nil {
			s.state.Environment = *p.Environment
		}
		s.state.Selection = nil
		return true
	})
}
