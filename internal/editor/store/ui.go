package store

import (
	"modulmate/internal/editor/models"
)

// ============================================================
// Environment
// ============================================================
//
// Окружение и режимы просмотра в историю не попадают.

func (s *Store) SetEnvironment(patch models.EnvironmentPatch) {
	s.mutate("set_environment", func() bool {
		s.state.Environment = patch.Apply(s.state.Environment)
		return true
	})
}

// ToggleDarkMode переключает тему. Темная тема ставит 22:00 и включает свет, светлая: 12:00 без света.
func (s *Store) ToggleDarkMode() {
	s.mutate("toggle_dark_mode", func() bool {
		s.state.DarkMode = !s.state.DarkMode
		if s.state.DarkMode {
			s.state.Environment.Time = 22
			s.state.Environment.Lights = true
		} else {
			s.state.Environment.Time = 12
			s.state.Environment.Lights = false
		}
		return true
	})
}

func (s *Store) ToggleSmartRoof() {
	s.mutate("toggle_smart_roof", func() bool {
		s.state.SmartRoof = !s.state.SmartRoof
		return true
	})
}

// ============================================================
// View
// ============================================================

func (s *Store) SetTransformMode(mode models.TransformMode) {
	s.mutate("set_transform_mode", func() bool {
		if s.state.TransformMode == mode {
			return false
		}
		s.state.TransformMode = mode
		return true
	})
}

// SetTab переключает вкладку панели, сбрасывая инструмент и выделение.
func (s *Store) SetTab(tab models.TabID) {
	s.mutate("set_tab", func() bool {
		s.state.ActiveTab = tab
		s.state.ActiveTool = models.NoTool
		s.state.Selection = nil
		return true
	})
}

func (s *Store) SetViewMode(mode models.ViewMode) {
	s.mutate("set_view_mode", func() bool {
		if s.state.ViewMode == mode {
			return false
		}
		s.state.ViewMode = mode
		return true
	})
}

// ============================================================
// Screenshot & export
// ============================================================

func (s *Store) RequestScreenshot() {
	s.mutate("request_screenshot", func() bool {
		s.state.ScreenshotRequested = true
		return true
	})
}

func (s *Store) ClearScreenshotRequest() {
	s.mutate("clear_screenshot_request", func() bool {
		if !s.state.ScreenshotRequested {
			return false
		}
		s.state.ScreenshotRequested = false
		return true
	})
}

// StartExportSequence переводит экспорт в шаг "top" и включает 2D-вид.
func (s *Store) StartExportSequence() {
	s.mutate("start_export", func() bool {
		s.state.ExportStep = models.ExportTop
		s.state.ViewMode = models.View2D
		return true
	})
}

// NextExportStep продвигает экспорт на шаг: idle → top → … → done → idle.
// Неизвестный шаг сбрасывается в idle. Возвращает новый шаг.
func (s *Store) NextExportStep() models.ExportStep {
	var next models.ExportStep
	s.mutate("next_export_step", func() bool {
		next = nextStep(s.state.ExportStep)
		s.state.ExportStep = next
		return true
	})
	return next
}

func nextStep(cur models.ExportStep) models.ExportStep {
	for i, step := range models.ExportSteps {
		if step == cur && i < len(models.ExportSteps)-1 {
			return models.ExportSteps[i+1]
		}
	}
	return models.ExportIdle
}

func (s *Store) FinishExport() {
	s.mutate("finish_export", func() bool {
		s.state.ExportStep = models.ExportIdle
		return true
	})
}
