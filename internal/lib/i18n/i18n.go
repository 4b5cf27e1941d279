// Package i18n provides the static French/Swedish text table used by the
// HTTP layer for user-facing messages.
package i18n

// LangFR and LangSE are the two supported language variants. Anything else
// falls back to French, the baseline language.
const (
	LangFR = "fr"
	LangSE = "se"
)

var translations = map[string]map[string]string{
	"trial_activated": {
		LangFR: "Mode test activé! Vous avez 30 jours d'essai gratuit.",
		LangSE: "Testläge aktiverat! Du har 30 dagars gratis provperiod.",
	},
	"subscription_expired": {
		LangFR: "Votre abonnement a expiré. Veuillez renouveler.",
		LangSE: "Din prenumeration har gått ut. Vänligen förnya.",
	},
	"subscription_valid_until": {
		LangFR: "Votre abonnement est valide jusqu'au",
		LangSE: "Din prenumeration är giltig till",
	},
	"no_expenses": {
		LangFR: "Aucune dépense enregistrée pour le moment.",
		LangSE: "Inga utgifter registrerade ännu.",
	},
	"enter_email": {
		LangFR: "Veuillez entrer votre email",
		LangSE: "Vänligen ange din e-post",
	},
	"logged_out": {
		LangFR: "Vous avez été déconnecté",
		LangSE: "Du har loggats ut",
	},
	"manual_entry": {
		LangFR: "Saisie manuelle requise",
		LangSE: "Manuell inmatning krävs",
	},
}

// Normalize maps any variant string onto a supported language.
func Normalize(lang string) string {
	if lang == LangSE {
		return LangSE
	}
	return LangFR
}

// Text returns the translation for key in the given language. Unknown keys
// come back as "[key]" so a missing entry is visible instead of silent.
func Text(key, lang string) string {
	byLang, ok := translations[key]
	if !ok {
		return "[" + key + "]"
	}
	return byLang[Normalize(lang)]
}
