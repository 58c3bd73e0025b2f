package domain

// Verdict is how a finished drag was judged.
type Verdict int

const (
	VerdictAccepted Verdict = iota
	// VerdictAccidental resets silently: the gesture was a click, not a drag.
	VerdictAccidental
	// VerdictTooSmall resets and asks the operator for a larger square.
	VerdictTooSmall
)

const TooSmallWarning = "selection too small, try a bit larger"

// Outline is the marquee stroke.
type Outline struct {
	Color string
	Dash  string
}

var (
	OutlineDefault = Outline{Color: "white", Dash: "5, 5"}
	OutlineWarning = Outline{Color: "red", Dash: "0"}
)

// Thresholds bound a finished selection: sides at or below ResetBelow are
// accidental, sides under MinSide are too small.
type Thresholds struct {
	ResetBelow float64
	MinSide    float64
}

var DefaultThresholds = Thresholds{ResetBelow: 10, MinSide: 50}

// DragSession is one pointer gesture between press and release.
type DragSession struct {
	StartX   float64
	StartY   float64
	Quadrant Quadrant
}

// Result is what a released drag produced.
type Result struct {
	Rect    Rect
	Crop    CropDefinition
	Verdict Verdict
	Warning string
}

// Selector owns the marquee and the drag in progress. It is not safe for
// concurrent use; the console drives it from its event loop only.
type Selector struct {
	frame       Frame
	defaultRect Rect
	thresholds  Thresholds

	rect    Rect
	crop    CropDefinition
	outline Outline
	drag    *DragSession

	disabled       bool
	surfaceEnabled bool
}

func NewSelector(frame Frame, defaultSide float64, thresholds Thresholds) *Selector {
	if defaultSide <= 0 {
		defaultSide = frame.DisplayHeight
	}
	if thresholds.MinSide <= 0 {
		thresholds = DefaultThresholds
	}
	def := Rect{Width: defaultSide, Height: defaultSide}
	s := &Selector{
		frame:          frame,
		defaultRect:    def,
		thresholds:     thresholds,
		rect:           def,
		outline:        OutlineDefault,
		surfaceEnabled: true,
	}
	s.crop = Scale(s.rect, frame, def)
	return s
}

func (s *Selector) Frame() Frame          { return s.frame }
func (s *Selector) Rect() Rect            { return s.rect }
func (s *Selector) DefaultRect() Rect     { return s.defaultRect }
func (s *Selector) Crop() CropDefinition  { return s.crop }
func (s *Selector) Outline() Outline      { return s.outline }
func (s *Selector) Disabled() bool        { return s.disabled }
func (s *Selector) SurfaceEnabled() bool  { return s.surfaceEnabled }
func (s *Selector) Dragging() bool        { return s.drag != nil }
func (s *Selector) Session() *DragSession { return s.drag }

// SetDisabled locks selection administratively. An open drag is dropped.
func (s *Selector) SetDisabled(disabled bool) {
	s.disabled = disabled
	if disabled {
		s.drag = nil
	}
}

// SetSurfaceEnabled follows the live video: a paused surface takes no drags.
func (s *Selector) SetSurfaceEnabled(enabled bool) {
	s.surfaceEnabled = enabled
	if !enabled {
		s.drag = nil
	}
}

// Begin opens a drag anchored at (x, y). blocked carries the caller's
// capability check (a running prediction); a refused drag leaves every piece
// of state untouched.
func (s *Selector) Begin(x, y float64, blocked bool) bool {
	if s.disabled || !s.surfaceEnabled || blocked {
		return false
	}
	x, y = s.frame.clampPoint(x, y)
	s.drag = &DragSession{StartX: x, StartY: y, Quadrant: QuadrantUpLeft}
	s.rect = Rect{X: x, Y: y}
	s.outline = OutlineWarning
	return true
}

// Update follows the pointer. Without an open drag it does nothing.
func (s *Selector) Update(x, y float64) bool {
	if s.drag == nil {
		return false
	}
	x, y = s.frame.clampPoint(x, y)
	rect, q := SquareFrom(s.drag.StartX, s.drag.StartY, x, y, s.frame.DisplayHeight)
	s.drag.Quadrant = q
	s.rect = rect
	s.outline = s.outlineFor(rect)
	s.crop = Scale(rect, s.frame, s.defaultRect)
	return true
}

// End closes the drag. When the pointer was released over the surface the
// release point counts as the last move. ok is false when no drag was open.
func (s *Selector) End(x, y float64, onSurface bool) (Result, bool) {
	if s.drag == nil {
		return Result{}, false
	}
	if onSurface {
		s.Update(x, y)
	}
	s.drag = nil

	verdict := s.judge(s.rect)
	res := Result{Verdict: verdict}
	if verdict != VerdictAccepted {
		s.reset()
	}
	if verdict == VerdictTooSmall {
		res.Warning = TooSmallWarning
	}
	s.crop = Scale(s.rect, s.frame, s.defaultRect)
	res.Rect = s.rect
	res.Crop = s.crop
	return res, true
}

// Cancel drops an open drag without judging it.
func (s *Selector) Cancel() {
	s.drag = nil
}

// Restore applies a previously accepted rect, e.g. one reloaded at startup.
// An open drag is dropped so the gesture cannot finish on the restored rect.
func (s *Selector) Restore(r Rect) {
	s.drag = nil
	if s.judge(r) != VerdictAccepted || !r.Square() {
		s.reset()
	} else {
		s.rect = r
		s.outline = s.outlineFor(r)
	}
	s.crop = Scale(s.rect, s.frame, s.defaultRect)
}

func (s *Selector) judge(r Rect) Verdict {
	side := r.Side()
	switch {
	case side <= s.thresholds.ResetBelow:
		return VerdictAccidental
	case side < s.thresholds.MinSide:
		return VerdictTooSmall
	default:
		return VerdictAccepted
	}
}

func (s *Selector) outlineFor(r Rect) Outline {
	if r.Width < s.thresholds.MinSide || r.Height < s.thresholds.MinSide {
		return OutlineWarning
	}
	return OutlineDefault
}

func (s *Selector) reset() {
	s.rect = s.defaultRect
	s.outline = OutlineDefault
}
