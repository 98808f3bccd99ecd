package overlay

import (
	"context"
	"fmt"

	"github.com/bhlabz/wheat-growth-maps/internal/earthengine"
	"github.com/bhlabz/wheat-growth-maps/internal/fields"
	"github.com/bhlabz/wheat-growth-maps/internal/properties"
	"github.com/bhlabz/wheat-growth-maps/internal/webmap"
	"github.com/gammazero/workerpool"
	"github.com/paulmach/orb"
	"github.com/schollz/progressbar/v3"
)

// samplingWorkers bounds the in-flight sampling requests per date.
const samplingWorkers = 4

// Sampler is the slice of the external service the builder needs; the
// real client satisfies it, tests use recorded samples.
type Sampler interface {
	SamplePixels(ctx context.Context, sceneIndex, band string, polygon orb.Polygon, scaleMeters int) ([]earthengine.PixelSample, error)
}

// DateLayers is the rendered output for one observation date: one layer
// per tracked variable plus the date's sampled pixel count.
type DateLayers struct {
	LAI        webmap.Layer
	NDVI       webmap.Layer
	PixelCount int
}

type fieldSamples struct {
	lai  []earthengine.PixelSample
	ndvi []earthengine.PixelSample
	err  error
}

// BuildDateLayers samples every target field for one date and renders the
// LAI and NDVI layers. Sampling runs on a bounded worker pool, but results
// are collected per field and rendered in field order, so the output is
// deterministic. A failed field is logged and left out of both layers; the
// remaining fields still render.
func BuildDateLayers(ctx context.Context, sampler Sampler, targets []fields.Field, date, sceneIndex string, visible bool) DateLayers {
	layers := DateLayers{
		LAI:  webmap.Layer{Name: "LAI_" + date, Visible: visible},
		NDVI: webmap.Layer{Name: "NDVI_" + date, Visible: visible},
	}

	results := make([]fieldSamples, len(targets))
	bar := progressbar.Default(int64(len(targets)), fmt.Sprintf("Sampling %s", date))

	wp := workerpool.New(samplingWorkers)
	for i, field := range targets {
		i, field := i, field
		wp.Submit(func() {
			defer bar.Add(1)

			lai, err := sampler.SamplePixels(ctx, sceneIndex, "LAI", field.Geometry, properties.PixelScaleMeters)
			if err != nil {
				results[i].err = err
				return
			}
			ndvi, err := sampler.SamplePixels(ctx, sceneIndex, "NDVI", field.Geometry, properties.PixelScaleMeters)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].lai, results[i].ndvi = lai, ndvi
		})
	}
	wp.StopWait()

	for i, field := range targets {
		result := results[i]
		if result.err != nil {
			fmt.Printf("    %s: sampling failed, skipping: %v\n", field.Address, result.err)
			continue
		}

		for _, sample := range result.lai {
			layers.LAI.Rectangles = append(layers.LAI.Rectangles, rectangleFor(sample, LAI, field.Address, date))
		}
		for _, sample := range result.ndvi {
			layers.NDVI.Rectangles = append(layers.NDVI.Rectangles, rectangleFor(sample, NDVI, field.Address, date))
		}
		// The date's pixel count follows the LAI sample count, the
		// original bookkeeping rule.
		layers.PixelCount += len(result.lai)
	}

	for _, field := range targets {
		outline := outlineFor(field.Geometry)
		layers.LAI.Outlines = append(layers.LAI.Outlines, outline)
		layers.NDVI.Outlines = append(layers.NDVI.Outlines, outline)
	}

	return layers
}

// rectangleFor centers a cell of one ground-sampling-distance on the
// sampled point. The meter-to-degree conversion is a local flat-earth
// approximation, fine at field scale only.
func rectangleFor(sample earthengine.PixelSample, scale Scale, address, date string) webmap.Rectangle {
	halfSize := float64(properties.PixelScaleMeters) / 2 / properties.MetersPerDegree
	value := scale.Format(sample.Value)

	return webmap.Rectangle{
		South:   sample.Latitude - halfSize,
		West:    sample.Longitude - halfSize,
		North:   sample.Latitude + halfSize,
		East:    sample.Longitude + halfSize,
		Color:   scale.Color(sample.Value),
		Popup:   fmt.Sprintf("<b>%s</b><br>Date: %s<br>%s: %s", address, date, scale.Name, value),
		Tooltip: fmt.Sprintf("%s: %s %s", date, scale.Name, value),
	}
}

func outlineFor(polygon orb.Polygon) webmap.Outline {
	if len(polygon) == 0 {
		return webmap.Outline{}
	}

	ring := polygon[0]
	points := make([][2]float64, 0, len(ring))
	for _, point := range ring {
		points = append(points, [2]float64{point.Y(), point.X()})
	}
	return webmap.Outline{Points: points}
}
