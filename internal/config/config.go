package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// DefaultChannels lists the FourCastNet output channels in model order.
var DefaultChannels = []string{
	"u10", "v10", "t2m", "sp", "mslp", "t850",
	"u1000", "v1000", "z1000", "u850", "v850", "z850",
	"u500", "v500", "z500", "t500", "z50", "r500", "r850", "tcwv",
}

// Config holds run settings, populated from environment variables.
type Config struct {
	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// Forecast time axis.
	InitTime time.Time
	Timestep time.Duration

	Channels []string

	// ValidRows is the number of latitude rows kept from the auxiliary
	// arrays. The model drops the last ERA5 row (721 -> 720).
	ValidRows int

	LatPath  string
	LonPath  string
	StatsDir string

	EdgeThreshold float64
}

// MeansPath returns the per-channel means file inside StatsDir.
func (c *Config) MeansPath() string {
	return filepath.Join(c.StatsDir, "global_means.npy")
}

// StdsPath returns the per-channel standard deviations file inside StatsDir.
func (c *Config) StdsPath() string {
	return filepath.Join(c.StatsDir, "global_stds.npy")
}

// LoadDotenv loads variables from a .env file in the working directory if one
// exists. Variables already set in the environment win.
func LoadDotenv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return errors.Wrap(godotenv.Load(), "load .env")
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	initTime, err := time.Parse(time.RFC3339, envOrDefault("FCN_INIT_TIME", "2023-10-15T00:00:00Z"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid FCN_INIT_TIME")
	}

	timestep, err := time.ParseDuration(envOrDefault("FCN_TIMESTEP", "6h"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid FCN_TIMESTEP")
	}
	if timestep <= 0 {
		return nil, errors.Errorf("invalid FCN_TIMESTEP %s: must be positive", timestep)
	}

	validRows, err := strconv.Atoi(envOrDefault("FCN_VALID_ROWS", "720"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid FCN_VALID_ROWS")
	}
	if validRows <= 0 {
		return nil, errors.Errorf("invalid FCN_VALID_ROWS %d: must be positive", validRows)
	}

	threshold, err := strconv.ParseFloat(envOrDefault("EDGE_THRESHOLD", "0.1"), 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid EDGE_THRESHOLD")
	}
	if threshold < 0 {
		return nil, errors.Errorf("invalid EDGE_THRESHOLD %g: must not be negative", threshold)
	}

	channels := DefaultChannels
	if v := os.Getenv("FCN_CHANNELS"); v != "" {
		channels = parseList(v)
	}

	cfg := &Config{
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		InitTime:        initTime,
		Timestep:        timestep,
		Channels:        channels,
		ValidRows:       validRows,
		LatPath:         envOrDefault("FCN_LAT_PATH", "/N/u/jmelms/BigRed200/FCN_Otis/latitude.npy"),
		LonPath:         envOrDefault("FCN_LON_PATH", "/N/u/jmelms/BigRed200/FCN_Otis/longitude.npy"),
		StatsDir:        envOrDefault("FCN_STATS_DIR", "/N/slate/jmelms/FourCastNetData/stats_v0/"),
		EdgeThreshold:   threshold,
	}

	if len(cfg.Channels) == 0 {
		return nil, errors.New("FCN_CHANNELS is empty")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, errors.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
