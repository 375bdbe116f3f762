package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/rankd/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{
			name: "json info",
			cfg:  config.LoggingConfig{Level: "info", Format: "json"},
		},
		{
			name: "console debug",
			cfg:  config.LoggingConfig{Level: "debug", Format: "console"},
		},
		{
			name:    "invalid level",
			cfg:     config.LoggingConfig{Level: "chatty", Format: "json"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
			logger.Info("test entry")
		})
	}
}
