//go:build unit

package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"courtside/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	sentinel := errs.New("slot unavailable")

	t.Run("errors.Is matches the mark", func(t *testing.T) {
		err := errs.Mark(errs.Wrap(errors.New("duplicate key"), "failed to insert"), sentinel)
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("errors.Is still matches the cause", func(t *testing.T) {
		cause := errors.New("duplicate key")
		err := errs.Mark(cause, sentinel)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("marks survive further wrapping", func(t *testing.T) {
		err := errs.Wrap(errs.Mark(errors.New("duplicate key"), sentinel), "create reservation")
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("message stays the cause's message", func(t *testing.T) {
		err := errs.Mark(errors.New("duplicate key"), sentinel)
		assert.Equal(t, "duplicate key", err.Error())
		assert.Equal(t, "duplicate key", fmt.Sprintf("%v", err))
	})

	t.Run("nil cause yields the mark itself", func(t *testing.T) {
		require.ErrorIs(t, errs.Mark(nil, sentinel), sentinel)
	})
}

func TestExtractStackLines(t *testing.T) {
	t.Run("nil error has no stack", func(t *testing.T) {
		assert.Nil(t, errs.ExtractStackLines(nil, 10))
	})

	t.Run("caps at maxLines", func(t *testing.T) {
		err := errs.Wrap(errs.New("boom"), "outer")
		lines := errs.ExtractStackLines(err, 3)
		require.NotEmpty(t, lines)
		assert.LessOrEqual(t, len(lines), 3)
	})
}
