package domain

import "math"

// Rect is the marquee in display pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Square() bool { return r.Width == r.Height }

// Side is the smaller dimension; equal to either one for a finished selection.
func (r Rect) Side() float64 { return math.Min(r.Width, r.Height) }

// Frame describes the video surface: the size it is drawn at and the size of
// the stream behind it.
type Frame struct {
	DisplayWidth  float64
	DisplayHeight float64
	NativeWidth   float64
	NativeHeight  float64
}

// ScaleFactor maps display pixels to native pixels. Only heights are used:
// the surface keeps the stream's aspect ratio.
func (f Frame) ScaleFactor() float64 {
	if f.DisplayHeight <= 0 {
		return 1
	}
	return f.NativeHeight / f.DisplayHeight
}

func (f Frame) clampPoint(x, y float64) (float64, float64) {
	return clamp(x, 0, f.DisplayWidth), clamp(y, 0, f.DisplayHeight)
}

// Quadrant names the diagonal a drag extends along from its anchor.
//
//	4: up-left   3: up-right
//	1: down-left 2: down-right
type Quadrant int

const (
	QuadrantDownLeft  Quadrant = 1
	QuadrantDownRight Quadrant = 2
	QuadrantUpRight   Quadrant = 3
	QuadrantUpLeft    Quadrant = 4
)

// QuadrantOf classifies the signed deltas anchor-minus-pointer.
func QuadrantOf(dx, dy float64) Quadrant {
	switch {
	case dx >= 0 && dy >= 0:
		return QuadrantUpLeft
	case dx < 0 && dy >= 0:
		return QuadrantUpRight
	case dx < 0:
		return QuadrantDownRight
	default:
		return QuadrantDownLeft
	}
}

// growsDown reports whether the square extends below the anchor, which
// decides the edge its side is clamped against.
func (q Quadrant) growsDown() bool {
	return q == QuadrantDownLeft || q == QuadrantDownRight
}

type cornerRule func(startX, startY, side float64) (x, y float64)

var corners = map[Quadrant]cornerRule{
	QuadrantDownLeft:  func(sx, sy, side float64) (float64, float64) { return sx - side, sy },
	QuadrantDownRight: func(sx, sy, _ float64) (float64, float64) { return sx, sy },
	QuadrantUpRight:   func(sx, sy, side float64) (float64, float64) { return sx, sy - side },
	QuadrantUpLeft:    func(sx, sy, side float64) (float64, float64) { return sx - side, sy - side },
}

// SquareFrom builds the clamped square for a drag anchored at (startX, startY)
// whose pointer is at (x, y). The side follows the horizontal delta and never
// reaches past the top or bottom edge of a canvas canvasHeight tall.
func SquareFrom(startX, startY, x, y, canvasHeight float64) (Rect, Quadrant) {
	dx := startX - x
	dy := startY - y
	q := QuadrantOf(dx, dy)

	side := math.Abs(dx)
	if q.growsDown() {
		side = math.Min(side, canvasHeight-startY)
	} else {
		side = math.Min(side, startY)
	}
	side = math.Max(side, 0)

	cx, cy := corners[q](startX, startY, side)
	return Rect{
		X:      round2(cx),
		Y:      round2(cy),
		Width:  round2(side),
		Height: round2(side),
	}, q
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if hi > lo && v > hi {
		return hi
	}
	return v
}
