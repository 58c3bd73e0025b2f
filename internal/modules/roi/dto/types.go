package dto

type PointerInput struct {
	X         float64
	Y         float64
	OnSurface bool
}

// DragInput describes a whole gesture, used by the non-interactive CLI.
type DragInput struct {
	FromX float64
	FromY float64
	ToX   float64
	ToY   float64
}

type RectOutput struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type CropOutput struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type SelectionOutput struct {
	Rect           RectOutput
	Crop           CropOutput
	CropText       string
	OutlineColor   string
	OutlineDash    string
	Quadrant       int
	Dragging       bool
	Disabled       bool
	SurfaceEnabled bool
	DisplayWidth   float64
	DisplayHeight  float64
}

type EndOutput struct {
	Selection SelectionOutput
	Verdict   string
	Warning   string
}

type LastCropOutput struct {
	Rect     RectOutput
	Crop     CropOutput
	CropText string
	Found    bool
}
