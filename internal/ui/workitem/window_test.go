package workitem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	id, title, err := Parse(" #1234 ", "  Fix login redirect ")
	require.NoError(t, err)
	assert.Equal(t, 1234, id)
	assert.Equal(t, "Fix login redirect", title)

	for _, rawID := range []string{"", "0", "-5", "abc", "#"} {
		_, _, err := Parse(rawID, "Title")
		assert.ErrorIs(t, err, errInvalidID, "id %q", rawID)
	}

	_, _, err = Parse("12", "   ")
	assert.ErrorIs(t, err, errMissingTitle)
}
