package helpers

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger(t *testing.T) {
	buffer := bytes.Buffer{}
	logger := NewZerologLogger(&buffer, false, zerolog.InfoLevel)
	logger.Printf("ran %v tests\n", 3)

	line := map[string]any{}
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &line))
	assert.Equal(t, "ran 3 tests", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestLoggerForStyle(t *testing.T) {
	buffer := bytes.Buffer{}

	logger, err := LoggerForStyle(&buffer, "plain", "info")
	assert.True(t, err.IsNil(), err)
	logger.Printf("ran %v tests\n", 3)
	logger.Println("done")
	assert.Equal(t, "ran 3 tests\ndone\n", buffer.String())
	buffer.Reset()

	logger, err = LoggerForStyle(&buffer, "json", "warn")
	assert.True(t, err.IsNil(), err)
	assert.IsType(t, &ZerologLogger{}, logger)

	logger, err = LoggerForStyle(&buffer, "live", "info")
	assert.True(t, err.IsNil(), err)
	assert.IsType(t, &LiveLogger{}, logger)

	_, err = LoggerForStyle(&buffer, "fancy", "info")
	assert.True(t, err.HasError())

	_, err = LoggerForStyle(&buffer, "plain", "loud")
	assert.True(t, err.HasError())
}
