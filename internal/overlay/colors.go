package overlay

import (
	"fmt"
	"math"
)

// NoDataColor marks masked or missing samples.
const NoDataColor = "#808080"

// Scale maps an index value into one of five color buckets. Thresholds and
// colors are fixed product configuration; changing them changes the
// published maps.
type Scale struct {
	Name       string
	Thresholds [4]float64
	Colors     [5]string
	Precision  int
}

var (
	LAI = Scale{
		Name:       "LAI",
		Thresholds: [4]float64{0.5, 1.0, 2.0, 3.0},
		Colors:     [5]string{"#d73027", "#fc8d59", "#fee08b", "#91cf60", "#1a9850"},
		Precision:  2,
	}

	NDVI = Scale{
		Name:       "NDVI",
		Thresholds: [4]float64{0.2, 0.4, 0.6, 0.8},
		Colors:     [5]string{"#d73027", "#fc8d59", "#fee08b", "#91cf60", "#1a9850"},
		Precision:  3,
	}
)

// Color buckets a value. Values below the first threshold get the first
// color, values at or above the last threshold the last one.
func (s Scale) Color(value float64) string {
	if math.IsNaN(value) {
		return NoDataColor
	}
	for i, threshold := range s.Thresholds {
		if value < threshold {
			return s.Colors[i]
		}
	}
	return s.Colors[4]
}

// Format renders a value for popups and tooltips, N/A when masked.
func (s Scale) Format(value float64) string {
	if math.IsNaN(value) {
		return "N/A"
	}
	return fmt.Sprintf("%.*f", s.Precision, value)
}
