package utils

import (
	"sort"
	"strconv"
	"strings"
)

// DetermineLocale resolves a locale to use based on explicit query param, Accept-Language header,
// supported locales, and a default fallback. Supported values should be normalized like "pt", "en".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	sup := map[string]struct{}{}
	for _, s := range supported {
		sup[strings.ToLower(s)] = struct{}{}
	}

	pick := func(lang string) (string, bool) {
		if lang == "" {
			return "", false
		}
		// Normalize: prefer base language (e.g., pt-BR -> pt)
		l := strings.ToLower(lang)
		if _, ok := sup[l]; ok {
			return l, true
		}
		if i := strings.Index(l, "-"); i > 0 {
			base := l[:i]
			if _, ok := sup[base]; ok {
				return base, true
			}
		}
		return "", false
	}

	if v, ok := pick(queryLang); ok {
		return v
	}

	// Parse Accept-Language with q-values. Example: "pt-BR,pt;q=0.9,en;q=0.8"
	type cand struct {
		lang string
		q    float64
	}
	var cands []cand
	for _, part := range strings.Split(acceptLang, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		lang := p
		q := 1.0
		if semi := strings.Index(p, ";"); semi >= 0 {
			lang = strings.TrimSpace(p[:semi])
			rest := p[semi+1:]
			if i := strings.Index(rest, "="); i >= 0 && strings.TrimSpace(rest[:i]) == "q" {
				if val, err := strconv.ParseFloat(strings.TrimSpace(rest[i+1:]), 64); err == nil {
					q = val
				}
			}
		}
		if l, ok := pick(lang); ok {
			cands = append(cands, cand{lang: l, q: q})
		}
	}
	if len(cands) > 0 {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].q > cands[j].q })
		return cands[0].lang
	}
	if v, ok := pick(def); ok {
		return v
	}
	// If def not in supported, pick first supported to avoid empty
	if len(supported) > 0 {
		return strings.ToLower(supported[0])
	}
	return "pt"
}
