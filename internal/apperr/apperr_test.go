package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified", New(NotFound, "user not found"), NotFound},
		{"wrapped underlying", Wrap(Conflict, "taken", errors.New("duplicate key")), Conflict},
		{"classified inside fmt chain", fmt.Errorf("check user: %w", New(Validation, "bad input")), Validation},
		{"unclassified defaults to persistence", errors.New("connection reset"), Persistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "post not found", Message(New(NotFound, "post not found")))
	assert.Equal(t, "internal server error", Message(errors.New("pq: deadlock detected")),
		"raw store errors must not leak to clients")
}

func TestUnwrap(t *testing.T) {
	underlying := errors.New("no rows")
	err := Wrap(NotFound, "user not found", underlying)
	assert.ErrorIs(t, err, underlying)
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, Validation))
}
