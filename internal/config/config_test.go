package config

import (
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.Equal(t, time.Date(2023, 10, 15, 0, 0, 0, 0, time.UTC), cfg.InitTime)
	assert.Equal(t, 6*time.Hour, cfg.Timestep)
	assert.Equal(t, DefaultChannels, cfg.Channels)
	assert.Len(t, cfg.Channels, 20)
	assert.Equal(t, 720, cfg.ValidRows)
	assert.Equal(t, 0.1, cfg.EdgeThreshold)
	assert.Equal(t, "/N/slate/jmelms/FourCastNetData/stats_v0/global_means.npy", cfg.MeansPath())
	assert.Equal(t, "/N/slate/jmelms/FourCastNetData/stats_v0/global_stds.npy", cfg.StdsPath())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_TEXTFILE", "/tmp/fcnpost.prom")
	t.Setenv("FCN_INIT_TIME", "2023-10-19T12:00:00Z")
	t.Setenv("FCN_TIMESTEP", "3h")
	t.Setenv("FCN_CHANNELS", "u10, v10 ,t2m")
	t.Setenv("FCN_VALID_ROWS", "360")
	t.Setenv("FCN_STATS_DIR", "/data/stats")
	t.Setenv("EDGE_THRESHOLD", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/tmp/fcnpost.prom", cfg.MetricsTextfile)
	assert.Equal(t, time.Date(2023, 10, 19, 12, 0, 0, 0, time.UTC), cfg.InitTime)
	assert.Equal(t, 3*time.Hour, cfg.Timestep)
	assert.Equal(t, []string{"u10", "v10", "t2m"}, cfg.Channels)
	assert.Equal(t, 360, cfg.ValidRows)
	assert.Equal(t, "/data/stats/global_means.npy", cfg.MeansPath())
	assert.Equal(t, 0.5, cfg.EdgeThreshold)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"FCN_INIT_TIME", "yesterday"},
		{"FCN_TIMESTEP", "-6h"},
		{"FCN_TIMESTEP", "six hours"},
		{"FCN_VALID_ROWS", "0"},
		{"EDGE_THRESHOLD", "high"},
		{"FCN_CHANNELS", " , "},
		{"LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_ParseErrorKeepsCause(t *testing.T) {
	t.Setenv("FCN_TIMESTEP", "six hours")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `time: invalid duration "six hours"`)

	for _, key := range []string{"FCN_VALID_ROWS", "EDGE_THRESHOLD"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv("FCN_TIMESTEP", "")
			t.Setenv(key, "many")
			_, err := Load()
			require.Error(t, err)
			var numErr *strconv.NumError
			require.True(t, errors.As(err, &numErr), "%v", err)
			assert.Equal(t, "many", numErr.Num)
		})
	}
}

func TestLoad_OutOfRange(t *testing.T) {
	t.Setenv("FCN_VALID_ROWS", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, "invalid FCN_VALID_ROWS -1: must be positive", err.Error())
}
