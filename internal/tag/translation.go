package tag

// Translation is a translated name for a parent tag. Only read paths fill it
// today; updates are not supported yet.
type Translation struct {
	ID       string `json:"id,omitempty"`
	ParentID string `json:"parent_id"`
	LCID     string `json:"lcid"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

// NewTranslation builds a translation with Value mirrored from name.
func NewTranslation(id, parentID, lcid, name string) Translation {
	return Translation{
		ID:       id,
		ParentID: parentID,
		LCID:     NormalizeLCID(lcid),
		Name:     name,
		Value:    name,
	}
}

// AsTag folds the translation into a tag keyed on its parent id, so it can
// compete with the parent during resolution.
func (tr Translation) AsTag(scope, viewerLCID string) Tag {
	return New(Params{
		ID:         tr.ParentID,
		Name:       tr.Name,
		LCID:       tr.LCID,
		Scope:      scope,
		ViewerLCID: viewerLCID,
		Persisted:  true,
	})
}
