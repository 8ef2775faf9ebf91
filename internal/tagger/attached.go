package tagger

import "github.com/gravitrone/polytag/internal/tag"

// attachedSet is the ordered set of tags currently related to the owner
// record. Callers only ever see copies.
type attachedSet struct {
	tags []tag.Tag
}

func (a *attachedSet) Load(tags []tag.Tag) {
	a.tags = append([]tag.Tag(nil), tags...)
}

func (a *attachedSet) Append(t tag.Tag) {
	a.tags = append(a.tags, t)
}

func (a *attachedSet) RemoveByID(id string) {
	kept := a.tags[:0]
	for _, t := range a.tags {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	a.tags = kept
}

func (a *attachedSet) Contains(id string) bool {
	_, ok := a.Find(id)
	return ok
}

func (a *attachedSet) Find(id string) (tag.Tag, bool) {
	if id == "" {
		return tag.Tag{}, false
	}
	for _, t := range a.tags {
		if t.ID == id {
			return t, true
		}
	}
	return tag.Tag{}, false
}

func (a *attachedSet) Snapshot() []tag.Tag {
	return append([]tag.Tag(nil), a.tags...)
}
