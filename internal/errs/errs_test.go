package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	base := New(KindNotFound, MsgNotFound)
	wrapped := fmt.Errorf("update project: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.Equal(t, MsgNotFound, Message(wrapped))
}

func TestForeignErrorIsUnknown(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Equal(t, MsgUnknown, Message(err))
	assert.False(t, Is(nil, KindUnknown))
}

func TestRateLimitedMessage(t *testing.T) {
	err := RateLimited("delete", 42)
	assert.Equal(t, "Too many delete requests. Please wait 42 seconds.", err.Error())
	assert.Equal(t, 42, err.RetryAfter)
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("socket closed")
	err := Wrap(KindUnavailable, MsgUnavailable, cause)
	assert.ErrorIs(t, err, cause)
}
