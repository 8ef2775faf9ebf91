package tagger

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/gravitrone/polytag/internal/tag"
)

var errTransport = errors.New("transport down")

// fakeBackend is an in-memory Backend that records calls.
type fakeBackend struct {
	mu sync.Mutex

	tags         []TagRecord
	translations []TranslationRecord
	attached     []AttachedRecord
	languages    []tag.Language

	createdID    string
	linkOK       bool
	unlinkOK     bool
	metadataErrs int

	queryErr  error
	createErr error
	linkErr   error

	calls []string
	links []Relationship
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		createdID: "new-tag",
		linkOK:    true,
		unlinkOK:  true,
		languages: []tag.Language{{ID: "lang-en", LCID: "en-us", Code: "en", Name: "English"}},
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) QueryTags(_ context.Context, filter, scope string) ([]TagRecord, error) {
	f.record("QueryTags")
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []TagRecord
	for _, t := range f.tags {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter)) && (t.Scope == "" || t.Scope == scope) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeBackend) QueryTagTranslations(_ context.Context, filter, _, viewer string) ([]TranslationRecord, error) {
	f.record("QueryTagTranslations")
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []TranslationRecord
	for _, t := range f.translations {
		if !strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter)) {
			continue
		}
		if t.LCID == viewer || tag.LanguageSubtag(t.LCID) == tag.LanguageSubtag(viewer) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeBackend) QueryAttachedTags(_ context.Context, _ AttachedQuery) ([]AttachedRecord, error) {
	f.record("QueryAttachedTags")
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.attached, nil
}

func (f *fakeBackend) FindTag(_ context.Context, name, scope, lcid string) (*TagRecord, error) {
	f.record("FindTag")
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	for _, t := range f.tags {
		if t.Name == name && t.Scope == scope && t.LCID == lcid {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeBackend) FindTagByID(_ context.Context, id string) (*TagRecord, error) {
	f.record("FindTagByID")
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	for _, t := range f.tags {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeBackend) CreateTag(_ context.Context, _, _ string) (string, error) {
	f.record("CreateTag")
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createdID, nil
}

func (f *fakeBackend) CreateRelationship(_ context.Context, rel Relationship) (bool, error) {
	f.record("CreateRelationship")
	f.mu.Lock()
	f.links = append(f.links, rel)
	f.mu.Unlock()
	if f.linkErr != nil {
		return false, f.linkErr
	}
	return f.linkOK, nil
}

func (f *fakeBackend) DeleteRelationship(_ context.Context, _, _, _, _ string) (bool, error) {
	f.record("DeleteRelationship")
	if f.linkErr != nil {
		return false, f.linkErr
	}
	return f.unlinkOK, nil
}

func (f *fakeBackend) ResolveEntitySetName(_ context.Context, entity string) (string, error) {
	f.record("ResolveEntitySetName")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.metadataErrs > 0 {
		f.metadataErrs--
		return "", errTransport
	}
	return entity + "s", nil
}

func (f *fakeBackend) ResolveManyToManyRelationship(_ context.Context, entity, target string) (string, string, error) {
	f.record("ResolveManyToManyRelationship")
	return entity + "_" + target, entity + target, nil
}

func (f *fakeBackend) FindLanguageByLocale(_ context.Context, lcid string) (*tag.Language, error) {
	f.record("FindLanguageByLocale")
	for _, l := range f.languages {
		if l.LCID == lcid {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}
