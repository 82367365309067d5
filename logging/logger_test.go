package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigure_Level(t *testing.T) {
	t.Cleanup(func() { Configure(Config{}) })

	var buf bytes.Buffer
	Configure(Config{Level: "error", Output: &buf, JSON: true})

	l := WithComponent("test")
	l.Warn().Msg("dropped")
	l.Error().Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"message":"kept"`)
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, `"service":"tv_grab_fr_sfr"`)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, "debug", LevelFor(true, false))
	assert.Equal(t, "error", LevelFor(false, true))
	assert.Equal(t, "", LevelFor(false, false))
}
