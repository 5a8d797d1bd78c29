package common

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "console debug", level: "debug", format: "console"},
		{name: "json info", level: "info", format: "json"},
		{name: "console warn", level: "warn", format: "console"},
		{name: "json error", level: "error", format: "json"},
		{name: "unknown level", level: "loud", format: "console", wantErr: true},
		{name: "unknown format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetupLogger(tt.level, tt.format)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSetupLogger_AppliesLevel(t *testing.T) {
	require.NoError(t, SetupLogger("warn", "console"))

	ctx := context.Background()
	require.False(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	require.True(t, slog.Default().Enabled(ctx, slog.LevelWarn))
}
