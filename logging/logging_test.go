package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupWithWriter(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	tests := []struct {
		env       string
		wantDebug bool
	}{
		{"development", true},
		{"production", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			logger := SetupWithWriter(tt.env, &buf)

			logger.Debug().Msg("debug line")
			log.Info().Str("archive", "export.zip").Msg("info line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")), out)
			assert.Contains(t, out, `"archive":"export.zip"`, "global logger must be replaced")
			assert.Contains(t, out, `"time":`)
		})
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, Level("development"))
	assert.Equal(t, zerolog.InfoLevel, Level("staging"))
}
