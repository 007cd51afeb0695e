package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/tide-data-collector/internal/domain"
)

// DefaultBaseURL is the production CO-OPS data endpoint.
const DefaultBaseURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

// Config holds all collector settings, populated from environment variables.
type Config struct {
	Stations []domain.StationSpec
	Range    domain.DateRange

	Datum    string // MLLW or NAVD, passed through to the service
	Units    string // english or metric, mapped from feet/meter
	TimeZone string // gmt, lst, or lst_ldt

	// StationLocation is the zone used for epoch math when TimeZone is a
	// local mode. UTC when TimeZone is gmt.
	StationLocation *time.Location

	ConvertTimestamps bool
	AppendUnixTime    bool

	OutputDir    string
	BaseURL      string
	Application  string
	FetchTimeout time.Duration

	StationConcurrency int

	LogLevel    string
	LogFormat   string
	MetricsAddr string

	// Optional Kafka row publisher.
	KafkaBrokers []string
	KafkaTopic   string

	// Optional S3-compatible mirror for finished station files.
	S3Bucket          string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Prefix          string
}

// Load reads configuration from environment variables (optionally a .env
// file), applying defaults where unset and validating the result.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	stations, err := parseStations(os.Getenv("STATIONS"))
	if err != nil {
		return nil, err
	}

	rng, err := parseRange(os.Getenv("BEGIN_DATE"), os.Getenv("END_DATE"))
	if err != nil {
		return nil, err
	}

	units, err := parseUnits(envOrDefault("UNITS", "feet"))
	if err != nil {
		return nil, err
	}

	timeZone := envOrDefault("TIME_ZONE", "gmt")
	loc, err := parseStationLocation(timeZone, envOrDefault("STATION_TZ", "Local"))
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	concurrency, err := parsePositiveInt("STATION_CONCURRENCY", 1)
	if err != nil {
		return nil, err
	}

	convert, err := parseBool("CONVERT_TIMESTAMPS", true)
	if err != nil {
		return nil, err
	}
	appendUnix, err := parseBool("APPEND_UNIX_TIME", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Stations:          stations,
		Range:             rng,
		Datum:             envOrDefault("DATUM", "MLLW"),
		Units:             units,
		TimeZone:          timeZone,
		StationLocation:   loc,
		ConvertTimestamps: convert,
		AppendUnixTime:    appendUnix,
		OutputDir:         envOrDefault("OUTPUT_DIR", "data"),
		BaseURL:           envOrDefault("COOPS_BASE_URL", DefaultBaseURL),
		Application:       envOrDefault("APPLICATION", "couchcryptid/tide-data-collector"),
		FetchTimeout:      fetchTimeout,

		StationConcurrency: concurrency,

		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "water-level-observations"),

		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          envOrDefault("S3_REGION", "auto"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Prefix:          envOrDefault("S3_PREFIX", "water-levels/"),
	}

	switch cfg.Datum {
	case "MLLW", "NAVD":
	default:
		return nil, fmt.Errorf("DATUM must be MLLW or NAVD, got %q", cfg.Datum)
	}
	switch cfg.TimeZone {
	case "gmt", "lst", "lst_ldt":
	default:
		return nil, fmt.Errorf("TIME_ZONE must be gmt, lst, or lst_ldt, got %q", cfg.TimeZone)
	}
	if cfg.S3Bucket != "" && (cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "") {
		return nil, errors.New("S3_BUCKET is set but S3_ACCESS_KEY_ID or S3_SECRET_ACCESS_KEY is not")
	}

	return cfg, nil
}

// KafkaEnabled reports whether the optional row publisher is configured.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// S3Enabled reports whether the optional object-storage mirror is configured.
func (c *Config) S3Enabled() bool { return c.S3Bucket != "" }

// parseStations parses the ordered "name=remoteID" pairs in STATIONS.
// Order is preserved: it determines collection and reporting order.
func parseStations(raw string) ([]domain.StationSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("STATIONS is required")
	}

	var stations []domain.StationSpec
	seen := make(map[string]struct{})
	for _, pair := range strings.Split(raw, ",") {
		name, id, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		id = strings.TrimSpace(id)
		if !ok || name == "" || id == "" {
			return nil, fmt.Errorf("STATIONS entry %q is not name=remoteID", pair)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("STATIONS has duplicate name %q", name)
		}
		seen[name] = struct{}{}
		stations = append(stations, domain.StationSpec{Name: name, RemoteID: id})
	}
	return stations, nil
}

func parseRange(begin, end string) (domain.DateRange, error) {
	start, err := time.Parse(domain.DateLayout, strings.TrimSpace(begin))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("BEGIN_DATE must be YYYY-MM-DD: %w", err)
	}
	stop, err := time.Parse(domain.DateLayout, strings.TrimSpace(end))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("END_DATE must be YYYY-MM-DD: %w", err)
	}
	if stop.Before(start) {
		return domain.DateRange{}, errors.New("END_DATE precedes BEGIN_DATE")
	}
	return domain.DateRange{Start: start, End: stop}, nil
}

// parseUnits maps the user-facing vocabulary to the service's.
func parseUnits(raw string) (string, error) {
	switch raw {
	case "feet":
		return "english", nil
	case "meter":
		return "metric", nil
	default:
		return "", fmt.Errorf("UNITS must be feet or meter, got %q", raw)
	}
}

func parseStationLocation(timeZone, stationTZ string) (*time.Location, error) {
	if timeZone == "gmt" {
		return time.UTC, nil
	}
	if stationTZ == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(stationTZ)
	if err != nil {
		return nil, fmt.Errorf("invalid STATION_TZ: %w", err)
	}
	return loc, nil
}

func parseBrokers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
