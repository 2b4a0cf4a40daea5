package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBundle(t *testing.T) {
	b := Default()
	assert.Equal(t, []string{"de", "en"}, b.Languages())
	assert.Equal(t, "HMC Information Portal", b.T("en", "header.title"))
	assert.Equal(t, "HMC Informationsportal", b.T("de", "header.title"))
	assert.Equal(t, "Keine Treffer", b.T("de", "dropdown.empty"))
}

func TestLocalesDefineSameKeys(t *testing.T) {
	b := Default()
	for key := range b.messages["en"] {
		assert.True(t, b.Has("de", key), "de is missing %q", key)
	}
	for key := range b.messages["de"] {
		assert.True(t, b.Has("en", key), "en is missing %q", key)
	}
}

func TestTFallback(t *testing.T) {
	b, err := Load(fstest.MapFS{
		"en/a.yaml": {Data: []byte("greet: Hello %s\nonly_en: english\n")},
		"de/a.yaml": {Data: []byte("greet: Hallo %s\n")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hallo Ada", b.T("de", "greet", "Ada"))
	assert.Equal(t, "english", b.T("de", "only_en"), "missing key falls back to en")
	assert.Equal(t, "english", b.T("fr", "only_en"), "unknown lang falls back to en")
	assert.Equal(t, "no.such.key", b.T("de", "no.such.key"))
}

func TestLoadFlattensNestedKeys(t *testing.T) {
	b, err := Load(fstest.MapFS{
		"en/nested.yaml": {Data: []byte("a:\n  b:\n    c: deep\n  n: 3\n")},
	})
	require.NoError(t, err)
	assert.Equal(t, "deep", b.T("en", "a.b.c"))
	assert.Equal(t, "3", b.T("en", "a.n"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	assert.Error(t, err)

	_, err = Load(fstest.MapFS{"en/bad.yaml": {Data: []byte("a: [")}})
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	b := Default()
	tests := []struct {
		pref string
		want string
	}{
		{pref: "de", want: "de"},
		{pref: "de-AT", want: "de"},
		{pref: "de_DE.UTF-8", want: "de"},
		{pref: "en-GB", want: "en"},
		{pref: "fr", want: "en"},
		{pref: "fr-FR,de;q=0.8", want: "de"},
		{pref: "C", want: "en"},
		{pref: "", want: "en"},
		{pref: "!!", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.pref, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Match(tt.pref))
		})
	}
}

func TestDetect(t *testing.T) {
	b := Default()
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "de_DE.UTF-8")

	assert.Equal(t, "de", b.Detect(""))
	assert.Equal(t, "en", b.Detect("en"), "configured value wins")

	t.Setenv("LANG", "C")
	assert.Equal(t, "en", b.Detect(""))
}
