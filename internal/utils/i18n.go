package utils

// Minimal server-side i18n for fixed keys.
// UI strings should live in the frontend; server provides only essentials.

var translations = map[string]map[string]string{
	"pt": {
		"health.ok": "tudo certo",
	},
	"en": {
		"health.ok": "ok",
	},
}

// T returns the translated string for key in locale; falls back to Portuguese.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["pt"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
