package webapi

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/polytag/internal/tagger"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "pt_testtoken", DefaultSchema()).WithRateLimit(0, 0)
	return srv, client
}

func valueResponse(rows any) []byte {
	b, _ := json.Marshal(map[string]any{"value": rows})
	return b
}

// decodeFetch parses the fetchXml query parameter of a request.
func decodeFetch(t *testing.T, r *http.Request) Fetch {
	t.Helper()
	var f Fetch
	require.NoError(t, xml.Unmarshal([]byte(r.URL.Query().Get("fetchXml")), &f))
	return f
}

func TestRequestHeaders(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer pt_testtoken", r.Header.Get("Authorization"))
		assert.Equal(t, "4.0", r.Header.Get("OData-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write(valueResponse([]map[string]any{}))
	})

	tags, err := client.QueryTags(context.Background(), "sa", "skills")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestQueryTags(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pt_tags", r.URL.Path)

		f := decodeFetch(t, r)
		assert.Equal(t, "pt_tag", f.Entity.Name)
		assert.Equal(t, SearchLimit, f.Top)
		require.Len(t, f.Entity.Filters, 1)
		assert.Equal(t, []Condition{
			{Attribute: "pt_name", Operator: "like", Value: "%sales%"},
			{Attribute: "pt_scope", Operator: "eq", Value: "skills"},
		}, f.Entity.Filters[0].Conditions)
		require.Len(t, f.Entity.Links, 1)
		assert.Equal(t, "lang", f.Entity.Links[0].Alias)

		w.Write(valueResponse([]map[string]any{
			{"pt_tagid": "A", "pt_name": "Sales", "pt_scope": "skills", "lang.pt_lcid": "en-us"},
			{"pt_tagid": "B", "pt_name": "Presales", "pt_scope": "skills"},
		}))
	})

	tags, err := client.QueryTags(context.Background(), "sales", "skills")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, tagger.TagRecord{ID: "A", Name: "Sales", LCID: "en-us", Scope: "skills"}, tags[0])
	assert.Empty(t, tags[1].LCID)
}

func TestQueryTagsEscapesWildcards(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		f := decodeFetch(t, r)
		assert.Equal(t, "%100[%] [_]x%", f.Entity.Filters[0].Conditions[0].Value)
		w.Write(valueResponse([]map[string]any{}))
	})

	_, err := client.QueryTags(context.Background(), "100% _x", "skills")
	require.NoError(t, err)
}

func TestQueryTagTranslations(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pt_tagtranslations", r.URL.Path)

		f := decodeFetch(t, r)
		require.Len(t, f.Entity.Filters, 1)
		locale := f.Entity.Filters[0].Filters[0]
		assert.Equal(t, "or", locale.Type)
		assert.Equal(t, []Condition{
			{Attribute: "pt_lcid", Operator: "eq", Value: "es-mx"},
			{Attribute: "pt_lcid", Operator: "begins-with", Value: "es-"},
		}, locale.Conditions)
		require.Len(t, f.Entity.Links, 1)
		assert.Equal(t, "inner", f.Entity.Links[0].LinkType)
		assert.Equal(t, "skills", f.Entity.Links[0].Filters[0].Conditions[0].Value)

		w.Write(valueResponse([]map[string]any{
			{"pt_tagtranslationid": "tr-1", "_pt_tagid_value": "A", "pt_name": "Ventas", "pt_lcid": "es-mx"},
		}))
	})

	trs, err := client.QueryTagTranslations(context.Background(), "ven", "skills", "ES-MX")
	require.NoError(t, err)
	require.Len(t, trs, 1)
	assert.Equal(t, tagger.TranslationRecord{ParentID: "A", Name: "Ventas", LCID: "es-mx"}, trs[0])
}

func TestQueryAttachedTags(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		f := decodeFetch(t, r)
		require.Len(t, f.Entity.Links, 3)
		intersect := f.Entity.Links[0]
		assert.Equal(t, "contact_pt_tag", intersect.Name)
		assert.True(t, intersect.Intersect)
		assert.Equal(t, Condition{Attribute: "contactid", Operator: "eq", Value: "owner-1"}, intersect.Filters[0].Conditions[0])
		assert.Equal(t, "tr", f.Entity.Links[2].Alias)
		assert.Equal(t, "outer", f.Entity.Links[2].LinkType)

		w.Write(valueResponse([]map[string]any{
			{
				"pt_tagid":     "A",
				"pt_name":      "Sales",
				"lang.pt_lcid": "en-us",
				"tr.pt_name":   "Ventas",
				"tr.pt_lcid":   "es-mx",
			},
		}))
	})

	rows, err := client.QueryAttachedTags(context.Background(), tagger.AttachedQuery{
		OwnerEntity: "contact",
		Intersect:   "contact_pt_tag",
		OwnerID:     "owner-1",
		Scope:       "skills",
		ViewerLCID:  "es-mx",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tagger.AttachedRecord{
		ID:             "A",
		Name:           "Sales",
		LCID:           "en-us",
		TranslatedName: "Ventas",
		TranslatedLCID: "es-mx",
	}, rows[0])
}

func TestFindTag(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		f := decodeFetch(t, r)
		assert.Equal(t, 1, f.Top)
		assert.Equal(t, "inner", f.Entity.Links[0].LinkType)
		assert.Equal(t, "en-us", f.Entity.Links[0].Filters[0].Conditions[0].Value)
		w.Write(valueResponse([]map[string]any{
			{"pt_tagid": "A", "pt_name": "Go", "pt_scope": "skills", "lang.pt_lcid": "en-us"},
		}))
	})

	rec, err := client.FindTag(context.Background(), "Go", "skills", "EN-US")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "A", rec.ID)
}

func TestFindTagMissing(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(valueResponse([]map[string]any{}))
	})

	rec, err := client.FindTag(context.Background(), "Go", "skills", "en-us")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFindTagByID(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pt_tags", r.URL.Path)
		f := decodeFetch(t, r)
		assert.Equal(t, 1, f.Top)
		require.Len(t, f.Entity.Filters, 1)
		assert.Equal(t, []Condition{eq("pt_tagid", "A")}, f.Entity.Filters[0].Conditions)
		assert.Equal(t, "outer", f.Entity.Links[0].LinkType)
		w.Write(valueResponse([]map[string]any{
			{"pt_tagid": "A", "pt_name": "Ventas", "pt_scope": "skills", "lang.pt_lcid": "es-mx"},
		}))
	})

	rec, err := client.FindTagByID(context.Background(), "A")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, tagger.TagRecord{ID: "A", Name: "Ventas", LCID: "es-mx", Scope: "skills"}, *rec)
}

func TestFindTagByIDMissing(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(valueResponse([]map[string]any{}))
	})

	rec, err := client.FindTagByID(context.Background(), "Z")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCreateTagFromRepresentation(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pt_tags", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"pt_name": "Rust", "pt_scope": "skills"}, body)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"pt_tagid":"11111111-2222-3333-4444-555555555555","pt_name":"Rust"}`))
	})

	id, err := client.CreateTag(context.Background(), "Rust", "skills")
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", id)
}

func TestCreateTagFromEntityIDHeader(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("OData-EntityId", "http://"+r.Host+"/pt_tags(AAAAAAAA-2222-3333-4444-555555555555)")
		w.WriteHeader(http.StatusNoContent)
	})

	id, err := client.CreateTag(context.Background(), "Rust", "skills")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa-2222-3333-4444-555555555555", id)
}

func TestCreateTagWithoutID(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.CreateTag(context.Background(), "Rust", "skills")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entity id")
}

func TestODataErrorSurfaced(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"0x80040217","message":"pt_tag With Id = x Does Not Exist"}}`))
	})

	_, err := client.QueryTags(context.Background(), "sa", "skills")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0x80040217: pt_tag With Id = x Does Not Exist")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
}

func TestPlainErrorBody(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := client.FindTag(context.Background(), "Go", "skills", "en-us")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502: upstream down")
}

func TestContextCancelled(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(valueResponse([]map[string]any{}))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.QueryTags(ctx, "sa", "skills")
	assert.Error(t, err)
}
