package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, LangSE, Normalize("se"))
	assert.Equal(t, LangFR, Normalize("fr"))
	assert.Equal(t, LangFR, Normalize(""))
	assert.Equal(t, LangFR, Normalize("de"))
	assert.Equal(t, LangFR, Normalize("SE"), "variant matching is exact")
}

func TestText(t *testing.T) {
	assert.Contains(t, Text("trial_activated", "fr"), "Mode test activé")
	assert.Contains(t, Text("trial_activated", "se"), "Testläge aktiverat")
	assert.Contains(t, Text("logged_out", "unknown"), "déconnecté")

	// Missing keys surface visibly instead of returning an empty string.
	assert.Equal(t, "[no_such_key]", Text("no_such_key", "fr"))
}

func TestText_AllKeysHaveBothLanguages(t *testing.T) {
	for key, byLang := range translations {
		assert.NotEmpty(t, byLang[LangFR], "key %s missing fr", key)
		assert.NotEmpty(t, byLang[LangSE], "key %s missing se", key)
	}
}
