package lifecycle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type srvErr struct{ msg string }

func (e srvErr) Error() string         { return "server: " + e.msg }
func (e srvErr) ServerMessage() string { return e.msg }

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "x"))
	assert.Equal(t, "fallback", Message(errors.New("dial tcp: refused"), "fallback"))
	assert.Equal(t, "Invalid credentials", Message(fmt.Errorf("login: %w", srvErr{"Invalid credentials"}), "fallback"))
	assert.Equal(t, "fallback", Message(srvErr{""}, "fallback"))
}
