package earthengine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bhlabz/wheat-growth-maps/internal/properties"
	"github.com/paulmach/orb"
)

// Scene is one candidate observation returned by the imagery search.
type Scene struct {
	Index string
}

// ObservationDate derives the calendar date from a scene index, whose
// first eight characters are the capture day (e.g. 20250310T000000...).
func ObservationDate(index string) (string, error) {
	if len(index) < 8 {
		return "", fmt.Errorf("scene index %q is too short to carry a date", index)
	}
	date, err := time.Parse("20060102", index[:8])
	if err != nil {
		return "", fmt.Errorf("scene index %q has no parseable date: %v", index, err)
	}
	return date.Format("2006-01-02"), nil
}

// SearchScenes lists the scenes intersecting the combined field bound
// within the date window, below the cloud-cover ceiling. The order of the
// result is whatever the service returns; callers sort by date themselves.
func (c *Client) SearchScenes(ctx context.Context, bound orb.Bound, startDate, endDate time.Time, maxCloudPct int) ([]Scene, error) {
	payload := map[string]interface{}{
		"collection": properties.ImageCollection,
		"region": map[string]interface{}{
			"type": "Polygon",
			"coordinates": [][][]float64{{
				{bound.Min.X(), bound.Min.Y()},
				{bound.Max.X(), bound.Min.Y()},
				{bound.Max.X(), bound.Max.Y()},
				{bound.Min.X(), bound.Max.Y()},
				{bound.Min.X(), bound.Min.Y()},
			}},
		},
		"timeRange": map[string]string{
			"from": startDate.Format(time.RFC3339),
			"to":   endDate.Format(time.RFC3339),
		},
		"filter": map[string]interface{}{
			"property": "CLOUDY_PIXEL_PERCENTAGE",
			"lessThan": maxCloudPct,
		},
	}

	url := fmt.Sprintf("%s/projects/%s/imageCollection:search", c.BaseURL, c.Project)
	content, err := c.postJSON(ctx, url, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to search scenes: %v", err)
	}

	var parsed struct {
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("invalid scene search response: %v", err)
	}

	var scenes []Scene
	for _, feature := range parsed.Features {
		index, ok := feature.Properties["system:index"].(string)
		if !ok || index == "" {
			continue
		}
		scenes = append(scenes, Scene{Index: index})
	}

	return scenes, nil
}
