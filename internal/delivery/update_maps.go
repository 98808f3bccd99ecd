package delivery

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bhlabz/wheat-growth-maps/internal/earthengine"
	"github.com/bhlabz/wheat-growth-maps/internal/fields"
	"github.com/bhlabz/wheat-growth-maps/internal/history"
	"github.com/bhlabz/wheat-growth-maps/internal/overlay"
	"github.com/bhlabz/wheat-growth-maps/internal/properties"
	"github.com/bhlabz/wheat-growth-maps/internal/utils"
	"github.com/bhlabz/wheat-growth-maps/internal/webmap"
	"github.com/bhlabz/wheat-growth-maps/output"
)

// UpdateResult summarizes one completed run. Empty NewDates means the run
// was a clean no-op: nothing was sampled and nothing persisted.
type UpdateResult struct {
	NewDates    []string
	PixelCounts map[string]int
	TotalDates  int
	TotalPixels int
	FieldCount  int
}

// UpdateMaps runs the whole pipeline once: load reference data, search the
// incremental window, compute the new-dates delta, build overlay layers,
// write both map documents and the quick-look previews, then persist the
// history and the last-processed marker.
func UpdateMaps(ctx context.Context, lastDate time.Time) (*UpdateResult, error) {
	endDate := time.Now()

	fmt.Println("\n[1] Loading reference field data...")
	records, err := fields.LoadRecords(properties.FieldListPath())
	if err != nil {
		return nil, err
	}
	fmt.Printf("  Target fields: %d\n", len(records))

	targets, err := fields.LoadTargetFields(properties.FieldGeometryPath(), records)
	if err != nil {
		return nil, err
	}
	bound := fields.CombinedBound(targets)
	centerLat := (bound.Min.Y() + bound.Max.Y()) / 2
	centerLon := (bound.Min.X() + bound.Max.X()) / 2
	fmt.Printf("  Map center: (%.4f, %.4f)\n", centerLat, centerLon)

	fmt.Println("\n[2] Initializing Earth Engine client...")
	client, err := earthengine.NewClient(ctx, properties.ServiceAccountEmail(), properties.PrivateKeyFile(), properties.EarthEngineProject())
	if err != nil {
		return nil, fmt.Errorf("earth engine setup failed: %v", err)
	}

	fmt.Println("\n[3] Searching for new imagery...")
	scenes, err := client.SearchScenes(ctx, bound, lastDate, endDate, properties.CloudCoverCeiling)
	if err != nil {
		return nil, err
	}
	fmt.Printf("  New scenes: %d\n", len(scenes))
	if len(scenes) == 0 {
		return &UpdateResult{}, nil
	}

	fmt.Println("\n[4] Computing new observation dates...")
	historyPath := filepath.Join(properties.OutputDir(), "observation_history.json")
	hist, err := history.Load(historyPath)
	if err != nil {
		return nil, err
	}
	fmt.Printf("  Known observation dates: %d\n", len(hist.Dates))

	candidates := make([]history.Candidate, 0, len(scenes))
	for _, scene := range scenes {
		date, err := earthengine.ObservationDate(scene.Index)
		if err != nil {
			fmt.Printf("  Skipping scene with unusable index: %v\n", err)
			continue
		}
		candidates = append(candidates, history.Candidate{Date: date, Index: scene.Index})
	}

	delta := history.ComputeDelta(hist, candidates)
	if len(delta) == 0 {
		return &UpdateResult{}, nil
	}
	fmt.Printf("  New observation dates: %d\n", len(delta))
	for i, c := range delta {
		fmt.Printf("    %d. %s\n", i+1, c.Date)
	}

	fmt.Println("\n[5] Building overlay layers...")
	laiDoc := &webmap.Document{CenterLat: centerLat, CenterLon: centerLon, Zoom: 15}
	ndviDoc := &webmap.Document{CenterLat: centerLat, CenterLon: centerLon, Zoom: 15}

	var latestLayers overlay.DateLayers
	for i, c := range delta {
		fmt.Printf("\n  === [%d/%d] %s ===\n", i+1, len(delta), c.Date)
		visible := i == len(delta)-1

		layers := overlay.BuildDateLayers(ctx, client, targets, c.Date, c.Index, visible)
		laiDoc.Layers = append(laiDoc.Layers, layers.LAI)
		ndviDoc.Layers = append(ndviDoc.Layers, layers.NDVI)

		if err := hist.RecordDate(c.Date, c.Index, layers.PixelCount); err != nil {
			return nil, err
		}
		if visible {
			latestLayers = layers
		}
		fmt.Printf("  %s: %d pixels\n", c.Date, layers.PixelCount)
	}

	fmt.Println("\n[6] Writing map documents...")
	allDates := utils.SortDates(append([]string{}, hist.Dates...), true)
	latestDate := delta[len(delta)-1].Date

	laiDoc.Title = webmap.TitlePanel{
		Heading:         "🌾 LAI Pixel Map (auto-update)",
		GradientFrom:    "#667eea",
		GradientTo:      "#764ba2",
		FirstDate:       allDates[0],
		LastDate:        allDates[len(allDates)-1],
		ObservationDays: len(allDates),
		FieldCount:      len(targets),
		TotalPixels:     hist.TotalPixels(),
		ShowPixelTotal:  true,
		LatestUpdate:    latestDate,
		CloudCeiling:    properties.CloudCoverCeiling,
	}
	ndviDoc.Title = laiDoc.Title
	ndviDoc.Title.Heading = "🌾 NDVI Pixel Map (auto-update)"
	ndviDoc.Title.GradientFrom = "#11998e"
	ndviDoc.Title.GradientTo = "#38ef7d"
	ndviDoc.Title.ShowPixelTotal = false

	laiMapPath := filepath.Join(properties.OutputDir(), "index.html")
	ndviMapPath := filepath.Join(properties.OutputDir(), "ndvi.html")
	if err := laiDoc.Write(laiMapPath); err != nil {
		return nil, err
	}
	if err := ndviDoc.Write(ndviMapPath); err != nil {
		return nil, err
	}
	fmt.Printf("  LAI map: %s\n  NDVI map: %s\n", laiMapPath, ndviMapPath)

	fmt.Println("\n[7] Rendering quick-look previews...")
	if err := output.CreatePreviewImage(latestLayers.LAI, bound, filepath.Join(properties.OutputDir(), "latest_lai.png")); err != nil {
		fmt.Printf("  Failed to render LAI preview: %v\n", err)
	}
	if err := output.CreatePreviewImage(latestLayers.NDVI, bound, filepath.Join(properties.OutputDir(), "latest_ndvi.png")); err != nil {
		fmt.Printf("  Failed to render NDVI preview: %v\n", err)
	}

	fmt.Println("\n[8] Persisting observation history...")
	if err := hist.Save(historyPath); err != nil {
		return nil, err
	}
	// The marker only moves after the history is safely on disk.
	if err := history.SaveLastProcessed(latestDate, properties.LastProcessedPath()); err != nil {
		return nil, err
	}
	fmt.Printf("  History: %s\n  Last processed: %s\n", historyPath, latestDate)

	result := &UpdateResult{
		NewDates:    make([]string, 0, len(delta)),
		PixelCounts: map[string]int{},
		TotalDates:  len(hist.Dates),
		TotalPixels: hist.TotalPixels(),
		FieldCount:  len(targets),
	}
	for _, c := range delta {
		result.NewDates = append(result.NewDates, c.Date)
		result.PixelCounts[c.Date] = hist.PixelCounts[c.Date]
	}
	return result, nil
}
