package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferenceTiers(t *testing.T) {
	cases := []struct {
		tag, viewer string
		want        int
	}{
		{"en-us", "en-us", 1},
		{"EN-US", "en-us", 1},
		{"en-US", "En-Us", 1},
		{"en_us", "en-us", 1},
		{"en-gb", "en-us", 2},
		{"en", "en-us", 2},
		{"es-mx", "es-es", 2},
		{"es-mx", "en-us", 3},
		{"fr-fr", "de-de", 3},
		{"", "en-us", 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Preference(tc.tag, tc.viewer), "%s vs %s", tc.tag, tc.viewer)
	}
}

func TestNewNormalizesAndRanks(t *testing.T) {
	got := New(Params{
		ID:         "A",
		Name:       "Sales",
		LCID:       "EN-US",
		Scope:      "skills",
		ViewerLCID: "en-gb",
		Persisted:  true,
	})
	assert.Equal(t, "en-us", got.LCID)
	assert.Equal(t, "Sales", got.Value)
	assert.Equal(t, PreferenceLanguage, got.Preference)
	assert.True(t, got.Persisted)
}

func TestTranslateSwapsNameAndLocale(t *testing.T) {
	tg := New(Params{ID: "A", Name: "Sales", LCID: "en-us", ViewerLCID: "es-mx"})
	assert.Equal(t, PreferenceOther, tg.Preference)

	tg.Translate("Ventas", "es-mx", "es-mx")

	assert.Equal(t, "Ventas", tg.Name)
	assert.Equal(t, "Ventas", tg.Value)
	assert.Equal(t, "es-mx", tg.LCID)
	assert.Equal(t, "en-us", tg.OriginalLCID)
	assert.Equal(t, PreferenceExact, tg.Preference)
}

func TestTranslateLowercasesLocale(t *testing.T) {
	tg := New(Params{Name: "Color", LCID: "en-us", ViewerLCID: "en-us"})
	tg.Translate("Colour", "EN-GB", "en-us")
	assert.Equal(t, "en-gb", tg.LCID)
	assert.Equal(t, PreferenceLanguage, tg.Preference)
}

func TestMarkPersisted(t *testing.T) {
	tg := New(Params{Name: "Go", LCID: "en-us", ViewerLCID: "en-us"})
	tg.MarkPersisted("")
	assert.True(t, tg.Persisted)
	assert.Empty(t, tg.ID)

	tg.MarkPersisted("id-1")
	assert.Equal(t, "id-1", tg.ID)
}

func TestTranslationAsTag(t *testing.T) {
	tr := NewTranslation("tr-1", "A", "ES-MX", "Ventas")
	assert.Equal(t, "Ventas", tr.Value)
	assert.Equal(t, "es-mx", tr.LCID)

	tg := tr.AsTag("skills", "es-mx")
	assert.Equal(t, "A", tg.ID)
	assert.Equal(t, "Ventas", tg.Name)
	assert.Equal(t, "skills", tg.Scope)
	assert.Equal(t, PreferenceExact, tg.Preference)
	assert.True(t, tg.Persisted)
}

func TestLanguageDisplayName(t *testing.T) {
	assert.Equal(t, "English", Language{Name: "English", LCID: "en-us"}.DisplayName())
	assert.NotEmpty(t, Language{LCID: "es-mx"}.DisplayName())
	assert.Equal(t, "not a locale!", LocaleName("not a locale!"))
}

func TestLanguageSubtag(t *testing.T) {
	assert.Equal(t, "en", LanguageSubtag("en-US"))
	assert.Equal(t, "pt", LanguageSubtag("pt"))
	assert.Equal(t, "zh", LanguageSubtag("zh_Hant_TW"))
}
