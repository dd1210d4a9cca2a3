package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	var buf bytes.Buffer
	logger, err := Setup(&buf, "info", "auto")
	require.NoError(t, err)
	logger.Debug().Msg("hidden")
	log.Info().Str("file", "a.zs").Msg("indexed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "indexed", rec["message"])
	assert.Equal(t, "a.zs", rec["file"])
	assert.Equal(t, "info", rec["level"])
}

func TestSetupConsole(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	var buf bytes.Buffer
	logger, err := Setup(&buf, "debug", "console")
	require.NoError(t, err)
	logger.Debug().Msg("parsed")
	assert.Contains(t, buf.String(), "parsed")
	assert.NotContains(t, buf.String(), "{")
}

func TestSetupErrors(t *testing.T) {
	_, err := Setup(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)
	_, err = Setup(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
