package fields

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/paulmach/orb"
)

// Record is one row of the reference field list.
type Record struct {
	PolygonUU string `csv:"polygon_uu"`
	Address   string `csv:"address"`
}

// Field is a target field polygon joined with its reference row. The set
// of target fields is fixed for the whole run.
type Field struct {
	PolygonUU string
	Address   string
	Geometry  orb.Polygon
}

// LoadRecords reads the reference field list.
func LoadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open field list %s: %v", path, err)
	}
	defer file.Close()

	var records []Record
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("failed to parse field list %s: %v", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("field list %s is empty", path)
	}
	return records, nil
}

// matchRecords joins the reference rows with their geometries, keeping the
// reference order. That order is the stable field order used for rendering
// throughout a run. Rows without a geometry are reported and skipped.
func matchRecords(records []Record, geometries map[string]orb.Polygon) []Field {
	var out []Field
	for _, r := range records {
		polygon, ok := geometries[r.PolygonUU]
		if !ok {
			fmt.Printf("  no geometry found for field %s (%s), skipping\n", r.PolygonUU, r.Address)
			continue
		}
		out = append(out, Field{
			PolygonUU: r.PolygonUU,
			Address:   r.Address,
			Geometry:  polygon,
		})
	}
	return out
}

// CombinedBound is the bounding box around every target field.
func CombinedBound(fields []Field) orb.Bound {
	bound := fields[0].Geometry.Bound()
	for _, f := range fields[1:] {
		bound = bound.Union(f.Geometry.Bound())
	}
	return bound
}
