package value_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/glyphdb/glyph/value"
)

func TestNewThingAcceptsAllowedIDVariants(t *testing.T) {
	for _, id := range []value.Value{
		value.NewInt(1),
		value.Strand("abc"),
		value.Array{value.NewInt(1)},
		value.NewObject(),
	} {
		thing, err := value.NewThing("person", id)
		assert.NoError(t, err)
		assert.Equal(t, "person", thing.Table)
	}
}

func TestNewThingRejectsEmptyTable(t *testing.T) {
	_, err := value.NewThing("", value.NewInt(1))
	assert.ErrorIs(t, err, value.ErrInvalidThing)
}

func TestNewThingRejectsDisallowedIDVariant(t *testing.T) {
	_, err := value.NewThing("person", value.Bool(true))
	assert.ErrorIs(t, err, value.ErrInvalidThing)
}

func TestThingStringFormat(t *testing.T) {
	thing, err := value.NewThing("person", value.NewInt(7))
	assert.NoError(t, err)
	assert.Equal(t, "person:7", thing.String())
}
