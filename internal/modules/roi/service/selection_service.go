package service

import (
	"roictl/internal/modules/roi/domain"
	roiout "roictl/internal/modules/roi/port/out"
)

// SelectionService binds the selector to the prediction gate so the drag
// refusal is decided at the moment a gesture starts.
type SelectionService struct {
	selector *domain.Selector
	gate     roiout.PredictionGate
}

func NewSelectionService(frame domain.Frame, defaultSide float64, thresholds domain.Thresholds, gate roiout.PredictionGate) *SelectionService {
	return &SelectionService{selector: domain.NewSelector(frame, defaultSide, thresholds), gate: gate}
}

func (s *SelectionService) Selector() *domain.Selector { return s.selector }

func (s *SelectionService) Begin(x, y float64) bool {
	return s.selector.Begin(x, y, s.blocked())
}

func (s *SelectionService) Update(x, y float64) bool {
	return s.selector.Update(x, y)
}

func (s *SelectionService) End(x, y float64, onSurface bool) (domain.Result, bool) {
	return s.selector.End(x, y, onSurface)
}

func (s *SelectionService) Cancel() { s.selector.Cancel() }

func (s *SelectionService) SetDisabled(disabled bool) { s.selector.SetDisabled(disabled) }

func (s *SelectionService) SetSurfaceEnabled(enabled bool) { s.selector.SetSurfaceEnabled(enabled) }

func (s *SelectionService) Restore(r domain.Rect) { s.selector.Restore(r) }

func (s *SelectionService) blocked() bool {
	return s.gate != nil && s.gate.PredictionActive()
}
