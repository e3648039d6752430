package apiclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageCursor(t *testing.T) {
	page, err := ParsePageCursor("")
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	page, err = ParsePageCursor(PageCursor(4))
	require.NoError(t, err)
	assert.Equal(t, 4, page)

	for _, bad := range []string{"0", "-2", "abc", "1.5"} {
		_, err := ParsePageCursor(bad)
		assert.True(t, errors.Is(err, ErrInvalidCursor), bad)
	}
}
