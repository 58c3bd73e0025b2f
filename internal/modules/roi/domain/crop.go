package domain

import "fmt"

// CropDefinition is the marquee expressed in the stream's native pixels.
type CropDefinition struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (c CropDefinition) String() string {
	return fmt.Sprintf("x=%d, y=%d, width=%d, height=%d", c.X, c.Y, c.Width, c.Height)
}

// Scale converts a display rect to native pixels, truncating toward zero.
// When the rect is still the untouched default square the crop covers the
// full square frame instead of a scaled copy of the default.
func Scale(r Rect, f Frame, defaultRect Rect) CropDefinition {
	k := f.ScaleFactor()
	crop := CropDefinition{
		X:      int(r.X * k),
		Y:      int(r.Y * k),
		Width:  int(r.Width * k),
		Height: int(r.Height * k),
	}
	if r == defaultRect {
		crop.Width = int(f.NativeHeight)
		crop.Height = int(f.NativeHeight)
	}
	return crop
}
