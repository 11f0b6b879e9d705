package i18n

import (
	"testing"
)

func TestGet_EmbeddedCatalogue(t *testing.T) {
	Init("", DefaultLanguage)
	if got := Get("APP_TITLE"); got != "Map Curator" {
		t.Errorf("Get(APP_TITLE) = %q, want %q", got, "Map Curator")
	}
	if got := Get("FITNESS", 12); got != "fitness 12" {
		t.Errorf("Get(FITNESS, 12) = %q, want %q", got, "fitness 12")
	}
}

func TestGet_UnknownKeyFallsBack(t *testing.T) {
	Init("", DefaultLanguage)
	if got := Get("NOT_A_KEY"); got != "NOT_A_KEY" {
		t.Errorf("Get(NOT_A_KEY) = %q, want the key back", got)
	}
}

func TestInit_UnknownLanguageUsesDefault(t *testing.T) {
	Init("", "xx_XX")
	defer Init("", DefaultLanguage)
	if got := Get("APP_TITLE"); got != "Map Curator" {
		t.Errorf("Get(APP_TITLE) = %q, want the default catalogue", got)
	}
}
