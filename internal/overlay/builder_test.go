package overlay

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/bhlabz/wheat-growth-maps/internal/earthengine"
	"github.com/bhlabz/wheat-growth-maps/internal/fields"
	"github.com/bhlabz/wheat-growth-maps/internal/properties"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSampler serves recorded samples keyed by polygon_uu and band, and
// fails for the fields listed in failing.
type fakeSampler struct {
	samples map[string][]earthengine.PixelSample
	failing map[string]bool
	fields  []fields.Field
}

func (f *fakeSampler) SamplePixels(_ context.Context, _, band string, polygon orb.Polygon, _ int) ([]earthengine.PixelSample, error) {
	uu := f.lookupUU(polygon)
	if f.failing[uu] {
		return nil, fmt.Errorf("sampling failed for %s", uu)
	}
	return f.samples[uu+"/"+band], nil
}

func (f *fakeSampler) lookupUU(polygon orb.Polygon) string {
	for _, field := range f.fields {
		if field.Geometry[0][0] == polygon[0][0] {
			return field.PolygonUU
		}
	}
	return ""
}

func squareAt(lon, lat float64) orb.Polygon {
	return orb.Polygon{{
		{lon, lat}, {lon + 0.01, lat}, {lon + 0.01, lat + 0.01}, {lon, lat + 0.01}, {lon, lat},
	}}
}

func testFields() []fields.Field {
	return []fields.Field{
		{PolygonUU: "uu-001", Address: "Shinjo North 1", Geometry: squareAt(131.60, 33.40)},
		{PolygonUU: "uu-002", Address: "Shinjo North 2", Geometry: squareAt(131.62, 33.40)},
	}
}

func testSampler(failing ...string) *fakeSampler {
	targets := testFields()
	failMap := map[string]bool{}
	for _, uu := range failing {
		failMap[uu] = true
	}
	return &fakeSampler{
		fields:  targets,
		failing: failMap,
		samples: map[string][]earthengine.PixelSample{
			"uu-001/LAI": {
				{Longitude: 131.605, Latitude: 33.405, Value: 2.1},
				{Longitude: 131.606, Latitude: 33.405, Value: math.NaN()},
			},
			"uu-001/NDVI": {
				{Longitude: 131.605, Latitude: 33.405, Value: 0.73},
			},
			"uu-002/LAI": {
				{Longitude: 131.625, Latitude: 33.405, Value: 0.4},
			},
			"uu-002/NDVI": {
				{Longitude: 131.625, Latitude: 33.405, Value: 0.15},
			},
		},
	}
}

func TestBuildDateLayersNamingAndVisibility(t *testing.T) {
	layers := BuildDateLayers(context.Background(), testSampler(), testFields(), "2025-03-10", "20250310T000000", true)

	assert.Equal(t, "LAI_2025-03-10", layers.LAI.Name)
	assert.Equal(t, "NDVI_2025-03-10", layers.NDVI.Name)
	assert.True(t, layers.LAI.Visible)
	assert.True(t, layers.NDVI.Visible)

	hidden := BuildDateLayers(context.Background(), testSampler(), testFields(), "2025-03-03", "20250303T000000", false)
	assert.False(t, hidden.LAI.Visible)
	assert.False(t, hidden.NDVI.Visible)
}

func TestBuildDateLayersRendersRectanglesInFieldOrder(t *testing.T) {
	layers := BuildDateLayers(context.Background(), testSampler(), testFields(), "2025-03-10", "20250310T000000", true)

	require.Len(t, layers.LAI.Rectangles, 3)
	require.Len(t, layers.NDVI.Rectangles, 2)

	// Field order is the reference list order regardless of sampling order.
	assert.Contains(t, layers.LAI.Rectangles[0].Popup, "Shinjo North 1")
	assert.Contains(t, layers.LAI.Rectangles[1].Popup, "Shinjo North 1")
	assert.Contains(t, layers.LAI.Rectangles[2].Popup, "Shinjo North 2")
}

func TestBuildDateLayersPixelCountFollowsLAISamples(t *testing.T) {
	layers := BuildDateLayers(context.Background(), testSampler(), testFields(), "2025-03-10", "20250310T000000", true)

	// 2 LAI samples for uu-001 plus 1 for uu-002; NDVI samples don't count.
	assert.Equal(t, 3, layers.PixelCount)
}

func TestBuildDateLayersRectangleGeometry(t *testing.T) {
	layers := BuildDateLayers(context.Background(), testSampler(), testFields(), "2025-03-10", "20250310T000000", true)

	rect := layers.LAI.Rectangles[0]
	halfSize := float64(properties.PixelScaleMeters) / 2 / properties.MetersPerDegree

	assert.InDelta(t, 33.405-halfSize, rect.South, 1e-12)
	assert.InDelta(t, 33.405+halfSize, rect.North, 1e-12)
	assert.InDelta(t, 131.605-halfSize, rect.West, 1e-12)
	assert.InDelta(t, 131.605+halfSize, rect.East, 1e-12)
	assert.Equal(t, "#91cf60", rect.Color)
	assert.Equal(t, "2025-03-10: LAI 2.10", rect.Tooltip)
}

func TestBuildDateLayersMaskedSampleRendersGray(t *testing.T) {
	layers := BuildDateLayers(context.Background(), testSampler(), testFields(), "2025-03-10", "20250310T000000", true)

	masked := layers.LAI.Rectangles[1]
	assert.Equal(t, NoDataColor, masked.Color)
	assert.True(t, strings.HasSuffix(masked.Tooltip, "N/A"))
}

func TestBuildDateLayersFailedFieldSkippedFromBothLayers(t *testing.T) {
	layers := BuildDateLayers(context.Background(), testSampler("uu-001"), testFields(), "2025-03-10", "20250310T000000", true)

	require.Len(t, layers.LAI.Rectangles, 1)
	require.Len(t, layers.NDVI.Rectangles, 1)
	assert.Contains(t, layers.LAI.Rectangles[0].Popup, "Shinjo North 2")
	assert.Contains(t, layers.NDVI.Rectangles[0].Popup, "Shinjo North 2")
	assert.Equal(t, 1, layers.PixelCount)
}

func TestBuildDateLayersOutlinesOnBothLayers(t *testing.T) {
	layers := BuildDateLayers(context.Background(), testSampler("uu-001"), testFields(), "2025-03-10", "20250310T000000", true)

	// Boundary outlines cover every field, failed ones included.
	assert.Len(t, layers.LAI.Outlines, 2)
	assert.Len(t, layers.NDVI.Outlines, 2)
	require.NotEmpty(t, layers.LAI.Outlines[0].Points)
	// Outline points are [lat, lon].
	assert.Equal(t, [2]float64{33.40, 131.60}, layers.LAI.Outlines[0].Points[0])
}
