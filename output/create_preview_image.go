package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bhlabz/wheat-growth-maps/internal/webmap"
	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
)

const previewWidth = 1000

// CreatePreviewImage draws one layer's pixel cells and field outlines onto
// a white canvas scaled to the combined field bound, as a quick-look PNG
// for notifications. A layer with no rectangles produces no file.
func CreatePreviewImage(layer webmap.Layer, bound orb.Bound, outputPath string) error {
	if len(layer.Rectangles) == 0 {
		return nil
	}

	lonSpan := bound.Max.X() - bound.Min.X()
	latSpan := bound.Max.Y() - bound.Min.Y()
	if lonSpan <= 0 || latSpan <= 0 {
		return fmt.Errorf("degenerate field bound, cannot render preview")
	}

	height := int(previewWidth * latSpan / lonSpan)
	if height < 1 {
		height = 1
	}

	toCanvas := func(lon, lat float64) (float64, float64) {
		x := (lon - bound.Min.X()) / lonSpan * previewWidth
		y := (bound.Max.Y() - lat) / latSpan * float64(height)
		return x, y
	}

	dc := gg.NewContext(previewWidth, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, rect := range layer.Rectangles {
		x1, y1 := toCanvas(rect.West, rect.North)
		x2, y2 := toCanvas(rect.East, rect.South)

		w := x2 - x1
		h := y2 - y1
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}

		dc.SetHexColor(rect.Color)
		dc.DrawRectangle(x1, y1, w, h)
		dc.Fill()
	}

	dc.SetHexColor("#000000")
	dc.SetLineWidth(1)
	for _, outline := range layer.Outlines {
		for i, point := range outline.Points {
			x, y := toCanvas(point[1], point[0])
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.Stroke()
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create preview directory: %v", err)
	}
	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to save preview image: %v", err)
	}

	fmt.Printf("  Preview image saved to: %s\n", outputPath)
	return nil
}
