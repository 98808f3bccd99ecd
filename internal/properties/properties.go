package properties

import "os"

// Fixed pipeline configuration. Thresholds and scales are part of the
// product definition and are not tuned per environment.
const (
	// ImageCollection is the satellite collection queried for new scenes.
	ImageCollection = "COPERNICUS/S2_SR_HARMONIZED"

	// PixelScaleMeters is the ground sampling distance of one sampled point.
	PixelScaleMeters = 10

	// CloudCoverCeiling is the maximum accepted scene cloud cover, percent.
	CloudCoverCeiling = 20

	// MetersPerDegree converts the pixel scale to a degree offset. Local
	// flat-earth approximation, only valid at single-field scale.
	MetersPerDegree = 111320.0

	// DefaultLastDate starts the incremental window when no --last-date
	// argument is given.
	DefaultLastDate = "2024-12-01"
)

func ServiceAccountEmail() string {
	return os.Getenv("GEE_SERVICE_ACCOUNT")
}

func PrivateKeyFile() string {
	if path := os.Getenv("GEE_PRIVATE_KEY_FILE"); path != "" {
		return path
	}
	return "private-key.json"
}

func EarthEngineProject() string {
	return os.Getenv("GEE_PROJECT")
}

func OutputDir() string {
	if dir := os.Getenv("OUTPUT_DIR"); dir != "" {
		return dir
	}
	return "output"
}

func FieldListPath() string {
	if path := os.Getenv("FIELD_LIST_PATH"); path != "" {
		return path
	}
	return "data/fields.csv"
}

func FieldGeometryPath() string {
	if path := os.Getenv("FIELD_GEOMETRY_PATH"); path != "" {
		return path
	}
	return "data/field_polygons.geojson"
}

func LastProcessedPath() string {
	if path := os.Getenv("LAST_PROCESSED_PATH"); path != "" {
		return path
	}
	return "last_processed.txt"
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
