package engine_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/glyphdb/glyph/engine"
)

func TestQueryTypeString(t *testing.T) {
	assert.Equal(t, "other", engine.QueryOther.String())
	assert.Equal(t, "live", engine.QueryLive.String())
	assert.Equal(t, "kill", engine.QueryKill.String())
}
