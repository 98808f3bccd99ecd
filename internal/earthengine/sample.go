package earthengine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/bhlabz/wheat-growth-maps/internal/properties"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// PixelSample is one sampled point within a field polygon: a coordinate
// pair and the band value at that point. Value is NaN where the band is
// masked (clouds, nodata).
type PixelSample struct {
	Longitude float64
	Latitude  float64
	Value     float64
}

// SamplePixels requests point samples of one index band clipped to the
// polygon at the given ground sampling distance. The service computes the
// band and applies the cloud mask; each returned feature is a point with
// the band value in its properties.
func (c *Client) SamplePixels(ctx context.Context, sceneIndex, band string, polygon orb.Polygon, scaleMeters int) ([]PixelSample, error) {
	payload := map[string]interface{}{
		"image": map[string]interface{}{
			"collection": properties.ImageCollection,
			"index":      sceneIndex,
		},
		"band":       band,
		"region":     geojson.NewGeometry(polygon),
		"scale":      scaleMeters,
		"geometries": true,
	}

	url := fmt.Sprintf("%s/projects/%s/image:samplePoints", c.BaseURL, c.Project)
	content, err := c.postJSON(ctx, url, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s for scene %s: %v", band, sceneIndex, err)
	}

	var parsed struct {
		Features []struct {
			Geometry *struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("invalid sample response for scene %s: %v", sceneIndex, err)
	}

	var samples []PixelSample
	for _, feature := range parsed.Features {
		if feature.Geometry == nil || len(feature.Geometry.Coordinates) < 2 || feature.Properties == nil {
			continue
		}

		value := math.NaN()
		if raw, ok := feature.Properties[band]; ok && raw != nil {
			if v, ok := raw.(float64); ok {
				value = v
			}
		}

		samples = append(samples, PixelSample{
			Longitude: feature.Geometry.Coordinates[0],
			Latitude:  feature.Geometry.Coordinates[1],
			Value:     value,
		})
	}

	return samples, nil
}
