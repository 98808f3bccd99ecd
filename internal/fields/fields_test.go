package fields

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareAt(lon, lat float64) orb.Polygon {
	return orb.Polygon{{
		{lon, lat}, {lon + 0.01, lat}, {lon + 0.01, lat + 0.01}, {lon, lat + 0.01}, {lon, lat},
	}}
}

func TestLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.csv")
	csv := "polygon_uu,address\nuu-001,Shinjo North 1\nuu-002,Shinjo North 2\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	records, err := LoadRecords(path)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "uu-001", records[0].PolygonUU)
	assert.Equal(t, "Shinjo North 1", records[0].Address)
	assert.Equal(t, "uu-002", records[1].PolygonUU)
}

func TestLoadRecordsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.csv")
	require.NoError(t, os.WriteFile(path, []byte("polygon_uu,address\n"), 0644))

	_, err := LoadRecords(path)
	assert.Error(t, err)
}

func TestMatchRecordsKeepsReferenceOrder(t *testing.T) {
	records := []Record{
		{PolygonUU: "uu-002", Address: "B"},
		{PolygonUU: "uu-001", Address: "A"},
		{PolygonUU: "uu-003", Address: "C"},
	}
	geometries := map[string]orb.Polygon{
		"uu-001": squareAt(131.60, 33.40),
		"uu-002": squareAt(131.62, 33.40),
		"uu-003": squareAt(131.64, 33.40),
	}

	fields := matchRecords(records, geometries)

	require.Len(t, fields, 3)
	assert.Equal(t, "uu-002", fields[0].PolygonUU)
	assert.Equal(t, "uu-001", fields[1].PolygonUU)
	assert.Equal(t, "uu-003", fields[2].PolygonUU)
}

func TestMatchRecordsSkipsRowsWithoutGeometry(t *testing.T) {
	records := []Record{
		{PolygonUU: "uu-001", Address: "A"},
		{PolygonUU: "uu-404", Address: "missing"},
	}
	geometries := map[string]orb.Polygon{
		"uu-001": squareAt(131.60, 33.40),
	}

	fields := matchRecords(records, geometries)

	require.Len(t, fields, 1)
	assert.Equal(t, "uu-001", fields[0].PolygonUU)
}

func TestCombinedBound(t *testing.T) {
	fields := []Field{
		{PolygonUU: "uu-001", Geometry: squareAt(131.60, 33.40)},
		{PolygonUU: "uu-002", Geometry: squareAt(131.64, 33.44)},
	}

	bound := CombinedBound(fields)

	assert.InDelta(t, 131.60, bound.Min.X(), 1e-9)
	assert.InDelta(t, 33.40, bound.Min.Y(), 1e-9)
	assert.InDelta(t, 131.65, bound.Max.X(), 1e-9)
	assert.InDelta(t, 33.45, bound.Max.Y(), 1e-9)
}
