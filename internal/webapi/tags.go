package webapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/gravitrone/polytag/internal/tag"
	"github.com/gravitrone/polytag/internal/tagger"
)

// SearchLimit caps the rows returned per search query.
const SearchLimit = 50

const (
	aliasLanguage    = "lang"
	aliasTranslation = "tr"
	aliasTag         = "tg"
)

type row map[string]any

func (r row) str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

func aliased(alias, attr string) string {
	return alias + "." + attr
}

// fetch runs a FetchXML query against an entity collection.
func (c *Client) fetch(ctx context.Context, set string, f Fetch) ([]row, error) {
	xmlText, err := f.Render()
	if err != nil {
		return nil, err
	}
	data, err := c.get(ctx, buildQuery("/"+set, url.Values{"fetchXml": {xmlText}}))
	if err != nil {
		return nil, err
	}
	return decodeList[row](data)
}

// languageLink joins the tag's language to read its locale.
func (c *Client) languageLink(linkType string, filters ...Filter) LinkEntity {
	s := c.schema
	return LinkEntity{
		Name:       s.LanguageEntity,
		From:       s.LanguageID,
		To:         s.TagLanguage,
		Alias:      aliasLanguage,
		LinkType:   linkType,
		Attributes: attrs(s.LanguageLCID),
		Filters:    filters,
	}
}

// viewerLocaleFilter matches the viewer locale or any region of its language.
func viewerLocaleFilter(attr, viewerLCID string) Filter {
	viewerLCID = tag.NormalizeLCID(viewerLCID)
	return Filter{Type: "or", Conditions: []Condition{
		eq(attr, viewerLCID),
		beginsWith(attr, tag.LanguageSubtag(viewerLCID)+"-"),
	}}
}

// QueryTags returns tags in scope whose name contains filter.
func (c *Client) QueryTags(ctx context.Context, filter, scope string) ([]tagger.TagRecord, error) {
	s := c.schema
	rows, err := c.fetch(ctx, s.TagSet, Fetch{
		Top: SearchLimit,
		Entity: FetchEntity{
			Name:       s.TagEntity,
			Attributes: attrs(s.TagID, s.TagName, s.TagScope),
			Orders:     []Order{{Attribute: s.TagName}},
			Filters:    []Filter{and(contains(s.TagName, filter), eq(s.TagScope, scope))},
			Links:      []LinkEntity{c.languageLink("outer")},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	out := make([]tagger.TagRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, c.tagRecord(r))
	}
	return out, nil
}

func (c *Client) tagRecord(r row) tagger.TagRecord {
	s := c.schema
	return tagger.TagRecord{
		ID:    r.str(s.TagID),
		Name:  r.str(s.TagName),
		LCID:  r.str(aliased(aliasLanguage, s.LanguageLCID)),
		Scope: r.str(s.TagScope),
	}
}

// QueryTagTranslations returns translations whose name contains filter, in the
// viewer locale or its language, for tags in scope.
func (c *Client) QueryTagTranslations(ctx context.Context, filter, scope, viewerLCID string) ([]tagger.TranslationRecord, error) {
	s := c.schema
	rows, err := c.fetch(ctx, s.TranslationSet, Fetch{
		Top: SearchLimit,
		Entity: FetchEntity{
			Name:       s.TranslationEntity,
			Attributes: attrs(s.TranslationID, s.TranslationTag, s.TranslationName, s.TranslationLCID),
			Filters: []Filter{{
				Type:       "and",
				Conditions: []Condition{contains(s.TranslationName, filter)},
				Filters:    []Filter{viewerLocaleFilter(s.TranslationLCID, viewerLCID)},
			}},
			Links: []LinkEntity{{
				Name:     s.TagEntity,
				From:     s.TagID,
				To:       s.TranslationTag,
				Alias:    aliasTag,
				LinkType: "inner",
				Filters:  []Filter{and(eq(s.TagScope, scope))},
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query tag translations: %w", err)
	}
	out := make([]tagger.TranslationRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, tagger.TranslationRecord{
			ParentID: r.str(lookupKey(s.TranslationTag)),
			Name:     r.str(s.TranslationName),
			LCID:     r.str(s.TranslationLCID),
		})
	}
	return out, nil
}

// QueryAttachedTags returns the tags linked to the owner record through the
// intersect entity, each joined with its translations near the viewer locale.
func (c *Client) QueryAttachedTags(ctx context.Context, q tagger.AttachedQuery) ([]tagger.AttachedRecord, error) {
	s := c.schema
	ownerKey := q.OwnerEntity + "id"
	rows, err := c.fetch(ctx, s.TagSet, Fetch{
		Entity: FetchEntity{
			Name:       s.TagEntity,
			Attributes: attrs(s.TagID, s.TagName),
			Orders:     []Order{{Attribute: s.TagName}},
			Filters:    []Filter{and(eq(s.TagScope, q.Scope))},
			Links: []LinkEntity{
				{
					Name:      q.Intersect,
					From:      s.TagID,
					To:        s.TagID,
					LinkType:  "inner",
					Visible:   hidden(),
					Intersect: true,
					Filters:   []Filter{and(eq(ownerKey, q.OwnerID))},
				},
				c.languageLink("outer"),
				{
					Name:       s.TranslationEntity,
					From:       s.TranslationTag,
					To:         s.TagID,
					Alias:      aliasTranslation,
					LinkType:   "outer",
					Attributes: attrs(s.TranslationName, s.TranslationLCID),
					Filters:    []Filter{viewerLocaleFilter(s.TranslationLCID, q.ViewerLCID)},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query attached tags: %w", err)
	}
	out := make([]tagger.AttachedRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, tagger.AttachedRecord{
			ID:             r.str(s.TagID),
			Name:           r.str(s.TagName),
			LCID:           r.str(aliased(aliasLanguage, s.LanguageLCID)),
			TranslatedName: r.str(aliased(aliasTranslation, s.TranslationName)),
			TranslatedLCID: r.str(aliased(aliasTranslation, s.TranslationLCID)),
		})
	}
	return out, nil
}

// FindTag returns the tag with exactly this name, scope and language locale,
// or nil when there is none.
func (c *Client) FindTag(ctx context.Context, name, scope, lcid string) (*tagger.TagRecord, error) {
	s := c.schema
	rows, err := c.fetch(ctx, s.TagSet, Fetch{
		Top: 1,
		Entity: FetchEntity{
			Name:       s.TagEntity,
			Attributes: attrs(s.TagID, s.TagName, s.TagScope),
			Filters:    []Filter{and(eq(s.TagName, name), eq(s.TagScope, scope))},
			Links: []LinkEntity{
				c.languageLink("inner", and(eq(s.LanguageLCID, tag.NormalizeLCID(lcid)))),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("find tag: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec := c.tagRecord(rows[0])
	return &rec, nil
}

// FindTagByID returns the tag with this id and the locale of its language, or
// nil when there is none.
func (c *Client) FindTagByID(ctx context.Context, id string) (*tagger.TagRecord, error) {
	s := c.schema
	rows, err := c.fetch(ctx, s.TagSet, Fetch{
		Top: 1,
		Entity: FetchEntity{
			Name:       s.TagEntity,
			Attributes: attrs(s.TagID, s.TagName, s.TagScope),
			Filters:    []Filter{and(eq(s.TagID, id))},
			Links:      []LinkEntity{c.languageLink("outer")},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec := c.tagRecord(rows[0])
	return &rec, nil
}

// CreateTag inserts a tag and returns its id.
func (c *Client) CreateTag(ctx context.Context, name, scope string) (string, error) {
	s := c.schema
	header := http.Header{}
	header.Set("Prefer", "return=representation")
	resp, err := c.do(ctx, http.MethodPost, "/"+s.TagSet, map[string]any{
		s.TagName:  name,
		s.TagScope: scope,
	}, header)
	if err != nil {
		return "", fmt.Errorf("create tag: %w", err)
	}

	if len(resp.body) > 0 {
		created, err := decodeOne[row](resp.body)
		if err != nil {
			return "", fmt.Errorf("create tag: %w", err)
		}
		if id := (*created).str(s.TagID); id != "" {
			return id, nil
		}
	}
	return entityIDFromHeader(resp.header.Get("OData-EntityId"))
}

// entityIDFromHeader extracts the GUID from an OData-EntityId header such as
// "https://org/api/data/v9.2/pt_tags(00000000-0000-0000-0000-000000000001)".
func entityIDFromHeader(value string) (string, error) {
	open := strings.LastIndexByte(value, '(')
	end := strings.LastIndexByte(value, ')')
	if open < 0 || end <= open {
		return "", fmt.Errorf("create tag: no entity id in response")
	}
	id, err := uuid.Parse(value[open+1 : end])
	if err != nil {
		return "", fmt.Errorf("create tag: parse entity id: %w", err)
	}
	return id.String(), nil
}
