package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(&buf, "INFO", "json")
	require.NoError(t, err)

	log.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNewInvalidLevel(t *testing.T) {
	t.Parallel()
	_, err := New(&bytes.Buffer{}, "LOUD", "json")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestNewInvalidFormat(t *testing.T) {
	t.Parallel()
	_, err := New(&bytes.Buffer{}, "INFO", "xml")
	assert.ErrorIs(t, err, ErrInvalidLogFormat)
}

func TestNewDefaultsToTint(t *testing.T) {
	t.Parallel()
	log, err := New(&bytes.Buffer{}, "", "")
	require.NoError(t, err)
	assert.NotNil(t, log)
}
