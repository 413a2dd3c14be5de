package abuse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashIP(t *testing.T) {
	secret := []byte("server-secret")

	h1 := HashIP("203.0.113.7", secret)
	h2 := HashIP("203.0.113.7", secret)
	assert.Equal(t, h1, h2, "deterministic for the same input")
	assert.Len(t, h1, 64, "hex-encoded sha256")
	assert.NotContains(t, h1, "203.0.113.7")

	assert.NotEqual(t, h1, HashIP("203.0.113.8", secret))
	assert.NotEqual(t, h1, HashIP("203.0.113.7", []byte("other-secret")))
}
