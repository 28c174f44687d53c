package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopierFuncDelegates(t *testing.T) {
	var copied string
	copier := CopierFunc(func(text string) error {
		copied = text
		return nil
	})
	require.NoError(t, copier.Copy("sidebar"))
	assert.Equal(t, "sidebar", copied)

	failure := errors.New("no display")
	failing := CopierFunc(func(string) error { return failure })
	assert.ErrorIs(t, failing.Copy("sidebar"), failure)
}
