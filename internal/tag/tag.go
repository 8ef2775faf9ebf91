// Package tag holds the tag value objects and the locale-aware ranking and
// resolution rules shared by the orchestrator and the picker.
package tag

import "strings"

// Preference ranks, lower is shown first.
const (
	PreferenceExact    = 1
	PreferenceLanguage = 2
	PreferenceOther    = 3
)

// Tag is a label attachable to a record, scoped to a category and tied to a
// display language.
type Tag struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Value        string `json:"value"`
	Scope        string `json:"scope"`
	LCID         string `json:"lcid"`
	OriginalLCID string `json:"originallcid,omitempty"`
	OwnerID      string `json:"owner_id,omitempty"`
	Persisted    bool   `json:"persisted"`
	Preference   int    `json:"preference"`
}

// Params carries the inputs for New.
type Params struct {
	ID         string
	Name       string
	LCID       string
	Scope      string
	ViewerLCID string
	OwnerID    string
	Persisted  bool
}

// New builds a tag ranked against the viewer locale.
func New(p Params) Tag {
	t := Tag{
		ID:        p.ID,
		Scope:     p.Scope,
		OwnerID:   p.OwnerID,
		Persisted: p.Persisted,
	}
	t.setName(p.Name)
	t.LCID = NormalizeLCID(p.LCID)
	t.Preference = Preference(t.LCID, p.ViewerLCID)
	return t
}

// Translate swaps in a translated name and locale. The previous locale is kept
// in OriginalLCID.
func (t *Tag) Translate(name, lcid, viewerLCID string) {
	t.setName(name)
	t.OriginalLCID = t.LCID
	t.LCID = NormalizeLCID(lcid)
	t.Preference = Preference(t.LCID, viewerLCID)
}

// MarkPersisted flags the tag as stored on the backend under id.
func (t *Tag) MarkPersisted(id string) {
	if id != "" {
		t.ID = id
	}
	t.Persisted = true
}

func (t *Tag) setName(name string) {
	t.Name = name
	t.Value = name
}

// NormalizeLCID lower-cases a locale code and uses '-' between subtags.
func NormalizeLCID(lcid string) string {
	lcid = strings.ToLower(strings.TrimSpace(lcid))
	return strings.ReplaceAll(lcid, "_", "-")
}

// LanguageSubtag returns the part of a locale before the first '-'.
func LanguageSubtag(lcid string) string {
	lcid = NormalizeLCID(lcid)
	if i := strings.IndexByte(lcid, '-'); i >= 0 {
		return lcid[:i]
	}
	return lcid
}

// Preference computes how close a tag locale is to the viewer locale:
// 1 for the same locale, 2 for the same language in another region, 3 otherwise.
func Preference(tagLCID, viewerLCID string) int {
	l := NormalizeLCID(tagLCID)
	v := NormalizeLCID(viewerLCID)
	switch {
	case l == v:
		return PreferenceExact
	case LanguageSubtag(l) == LanguageSubtag(v):
		return PreferenceLanguage
	default:
		return PreferenceOther
	}
}
