package utils

import "testing"

func TestDetermineLocale_QueryParamWins(t *testing.T) {
	got := DetermineLocale("pt-BR", "en-US,en;q=0.9,pt;q=0.8", []string{"pt", "en"}, "pt")
	if got != "pt" {
		t.Fatalf("want pt, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguageOrder(t *testing.T) {
	got := DetermineLocale("", "en-US,en;q=0.9,pt;q=0.8", []string{"pt", "en"}, "pt")
	if got != "en" {
		t.Fatalf("want en, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguagePrefersHigherQ(t *testing.T) {
	got := DetermineLocale("", "en;q=0.8,pt;q=0.9", []string{"pt", "en"}, "pt")
	if got != "pt" {
		t.Fatalf("want pt, got %s", got)
	}
}

func TestDetermineLocale_DefaultFallback(t *testing.T) {
	got := DetermineLocale("", "fr-FR,es;q=0.9", []string{"pt", "en"}, "pt")
	if got != "pt" {
		t.Fatalf("want pt fallback, got %s", got)
	}
}
