package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyReply(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"sí", INTENT_AFFIRMATIVE},
		{"si", INTENT_AFFIRMATIVE},
		{"Sí!", INTENT_AFFIRMATIVE},
		{"  YES  ", INTENT_AFFIRMATIVE},
		{"¡Claro!", INTENT_AFFIRMATIVE},
		{"ok", INTENT_AFFIRMATIVE},
		{"no", INTENT_NEGATIVE},
		{"No.", INTENT_NEGATIVE},
		{"nope", INTENT_NEGATIVE},
		{"quizás", INTENT_UNRECOGNIZED},
		{"", INTENT_UNRECOGNIZED},
		{"sí quiero cambiar la fecha", INTENT_UNRECOGNIZED},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyReply(tc.text), "text=%q", tc.text)
	}
}

func TestClassifyReplyExactMatchPolicy(t *testing.T) {
	// exact match must not read "no sé" as a negative
	assert.Equal(t, INTENT_UNRECOGNIZED, ClassifyReply("no sé"))
	// but containment, the free-form policy, does find the token
	assert.True(t, ContainsKeyword("no sé", "no"))
}

func TestContainsKeyword(t *testing.T) {
	assert.True(t, ContainsKeyword("Quiero CONFIRMACIÓN de mi cita", "confirmación"))
	assert.True(t, ContainsKeyword("hola, quiero cancelar mi cita", "confirmación", "cancelar"))
	assert.False(t, ContainsKeyword("buenos días", "cancelar"))
}
