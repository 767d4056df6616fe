// Package intent maps free-text customer replies to a closed intent set.
//
// Two matching policies exist on purpose. Survey replies ("¿deseas cancelar?"
// -> "sí") use exact match against closed token sets so "no sé" is not read as
// a "no". Channel-join and free-form paths use substring containment, where a
// keyword like "confirmación" may appear anywhere in the message. Callers pick
// the policy for their input path.
package intent

import "strings"

type Intent string

const (
	INTENT_AFFIRMATIVE  Intent = "affirmative"
	INTENT_NEGATIVE     Intent = "negative"
	INTENT_UNRECOGNIZED Intent = "unrecognized"
)

var affirmatives = map[string]struct{}{
	"si":       {},
	"sí":       {},
	"yes":      {},
	"y":        {},
	"ok":       {},
	"confirmo": {},
	"claro":    {},
}

var negatives = map[string]struct{}{
	"no":   {},
	"nope": {},
}

// punctuation stripped from the ends of a reply before matching; interior
// characters are left alone so "no sé" stays unrecognized.
const edgePunctuation = "¡!¿?.,;:\"'()«»*_~ \t\r\n"

func normalize(text string) string {
	return strings.Trim(strings.ToLower(text), edgePunctuation)
}

// ClassifyReply classifies a survey reply using exact-match policy.
func ClassifyReply(text string) Intent {
	token := normalize(text)
	if _, ok := affirmatives[token]; ok {
		return INTENT_AFFIRMATIVE
	}
	if _, ok := negatives[token]; ok {
		return INTENT_NEGATIVE
	}
	return INTENT_UNRECOGNIZED
}

// ContainsKeyword reports whether any keyword appears anywhere in the text,
// case-insensitively. This is the free-form policy for channel-join messages.
func ContainsKeyword(text string, keywords ...string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
