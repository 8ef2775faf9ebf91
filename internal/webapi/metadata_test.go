package webapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEntitySetName(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/EntityDefinitions(LogicalName='contact')", r.URL.Path)
		assert.Equal(t, "EntitySetName", r.URL.Query().Get("$select"))
		w.Write([]byte(`{"EntitySetName":"contacts","MetadataId":"x"}`))
	})

	name, err := client.ResolveEntitySetName(context.Background(), "contact")
	require.NoError(t, err)
	assert.Equal(t, "contacts", name)
}

func TestResolveEntitySetNameEmpty(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.ResolveEntitySetName(context.Background(), "contact")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty name")
}

func TestResolveManyToManyRelationship(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/EntityDefinitions(LogicalName='contact')/ManyToManyRelationships", r.URL.Path)
		w.Write(valueResponse([]map[string]any{
			{"SchemaName": "contact_account", "Entity1LogicalName": "contact", "Entity2LogicalName": "account", "IntersectEntityName": "contactaccount"},
			{"SchemaName": "pt_tag_contact", "Entity1LogicalName": "pt_tag", "Entity2LogicalName": "contact", "IntersectEntityName": "pt_tag_contact"},
		}))
	})

	name, intersect, err := client.ResolveManyToManyRelationship(context.Background(), "contact", "pt_tag")
	require.NoError(t, err)
	assert.Equal(t, "pt_tag_contact", name)
	assert.Equal(t, "pt_tag_contact", intersect)
}

func TestResolveManyToManyRelationshipMissing(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(valueResponse([]map[string]any{}))
	})

	_, _, err := client.ResolveManyToManyRelationship(context.Background(), "contact", "pt_tag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no many-to-many relationship")
}

func TestFindLanguageByLocale(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pt_languages", r.URL.Path)
		assert.Equal(t, "pt_lcid eq 'es-mx'", r.URL.Query().Get("$filter"))
		assert.Equal(t, "1", r.URL.Query().Get("$top"))
		w.Write(valueResponse([]map[string]any{
			{"pt_languageid": "lang-1", "pt_lcid": "ES-MX", "pt_code": "es", "pt_name": "Spanish (Mexico)"},
		}))
	})

	lang, err := client.FindLanguageByLocale(context.Background(), "es-MX")
	require.NoError(t, err)
	require.NotNil(t, lang)
	assert.Equal(t, "lang-1", lang.ID)
	assert.Equal(t, "es-mx", lang.LCID)
	assert.Equal(t, "es", lang.Code)
}

func TestFindLanguageByLocaleMissing(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(valueResponse([]map[string]any{}))
	})

	lang, err := client.FindLanguageByLocale(context.Background(), "xx-yy")
	require.NoError(t, err)
	assert.Nil(t, lang)
}

func TestQuoteEscapesSingleQuotes(t *testing.T) {
	assert.Equal(t, "'O''Brien'", quote("O'Brien"))
}

func TestSchemaWithDefaults(t *testing.T) {
	s := Schema{TagEntity: "new_tag"}.WithDefaults()
	assert.Equal(t, "new_tag", s.TagEntity)
	assert.Equal(t, DefaultSchema().TagSet, s.TagSet)
	assert.Equal(t, "_pt_tagid_value", lookupKey(s.TranslationTag))
}
