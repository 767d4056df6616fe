package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationKey(t *testing.T) {
	key := CorrelationKey("3511234567")
	assert.Equal(t, "3511234567", key)
	assert.Equal(t, key, CorrelationKey("whatsapp:+523511234567"))
	assert.Equal(t, key, CorrelationKey("+52 351 123 4567"))
	assert.Equal(t, key, CorrelationKey("(351) 123-4567"))
	assert.Equal(t, key, CorrelationKey("+5213511234567"))
}

func TestCorrelationKeyShortNumbers(t *testing.T) {
	// fewer than 10 digits is not an error, just a key that matches nothing stored
	assert.Equal(t, "12345", CorrelationKey("123-45"))
	assert.Equal(t, "", CorrelationKey("whatsapp:"))
}
