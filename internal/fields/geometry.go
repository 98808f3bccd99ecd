package fields

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadTargetFields reads the polygon geometry collection and joins it with
// the reference rows. Only Polygon features carrying a polygon_uu property
// participate; anything else in the collection is ignored.
func LoadTargetFields(geometryPath string, records []Record) ([]Field, error) {
	godal.RegisterInternalDrivers()

	ds, err := godal.Open(geometryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open field geometry source %s: %v", geometryPath, err)
	}
	defer ds.Close()

	layers := ds.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("field geometry source %s has no layers", geometryPath)
	}

	geometries := map[string]orb.Polygon{}
	layer := layers[0]
	for {
		feature := layer.NextFeature()
		if feature == nil {
			break
		}

		val, ok := feature.Fields()["polygon_uu"]
		if !ok {
			feature.Close()
			continue
		}
		polygonUU := val.String()

		geom := feature.Geometry()
		gj, err := geom.GeoJSON()
		if err != nil {
			fmt.Printf("  failed to export geometry for %s: %v\n", polygonUU, err)
			feature.Close()
			continue
		}

		parsed, err := geojson.UnmarshalGeometry([]byte(gj))
		if err != nil {
			fmt.Printf("  failed to parse geometry for %s: %v\n", polygonUU, err)
			feature.Close()
			continue
		}

		if polygon, ok := parsed.Geometry().(orb.Polygon); ok {
			geometries[polygonUU] = polygon
		}
		feature.Close()
	}

	targets := matchRecords(records, geometries)
	if len(targets) == 0 {
		return nil, fmt.Errorf("no target field geometries found in %s", geometryPath)
	}
	return targets, nil
}
