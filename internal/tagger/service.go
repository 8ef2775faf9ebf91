// Package tagger sequences tag search, creation, attach and detach against the
// backend and owns the set of tags attached to the record being edited.
package tagger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/gravitrone/polytag/internal/errs"
	"github.com/gravitrone/polytag/internal/tag"
)

// DefaultBreakerTimeout is how long searches and writes stay suspended after a
// failure.
const DefaultBreakerTimeout = 3 * time.Second

// DefaultMinInputLength is the shortest search text sent to the backend.
const DefaultMinInputLength = 2

// Settings configures a Service.
type Settings struct {
	Scope      string
	ViewerLCID string

	OwnerEntity    string
	OwnerID        string
	TagEntity      string
	LanguageEntity string

	// LanguageRelationship is the navigation from a language record to its
	// tags, used to give a new tag its language.
	LanguageRelationship string

	// Overrides for the owner to tag many-to-many relationship. Empty values
	// are resolved from backend metadata.
	RelationshipName    string
	IntersectCollection string

	MinInputLength int
	BreakerTimeout time.Duration
}

// Service is the tag lifecycle orchestrator for one owner record.
type Service struct {
	backend Backend
	cfg     Settings
	log     *zap.Logger

	mu       sync.Mutex
	attached attachedSet
	breaker  breaker
	meta     metadataState
}

// New creates a Service. A nil logger disables logging.
func New(backend Backend, cfg Settings, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MinInputLength <= 0 {
		cfg.MinInputLength = DefaultMinInputLength
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = DefaultBreakerTimeout
	}
	cfg.ViewerLCID = tag.NormalizeLCID(cfg.ViewerLCID)
	return &Service{
		backend: backend,
		cfg:     cfg,
		log:     log.With(zap.String("scope", cfg.Scope), zap.String("owner_id", cfg.OwnerID)),
		breaker: newBreaker(cfg.BreakerTimeout),
	}
}

// ViewerLCID returns the normalized viewer locale.
func (s *Service) ViewerLCID() string {
	return s.cfg.ViewerLCID
}

// MinInputLength returns the shortest text Search sends to the backend.
func (s *Service) MinInputLength() int {
	return s.cfg.MinInputLength
}

// Attached returns a copy of the attached set.
func (s *Service) Attached() []tag.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached.Snapshot()
}

// Faulted reports whether a recent failure suspended search and writes.
func (s *Service) Faulted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breaker.state() == stateFaulted
}

// LoadAttached fetches the tags related to the owner record, swaps in
// translations closer to the viewer locale, and replaces the attached set.
func (s *Service) LoadAttached(ctx context.Context) ([]tag.Tag, error) {
	meta, err := s.metadata(ctx)
	if err != nil {
		return nil, s.fail("load attached tags", err)
	}

	rows, err := s.backend.QueryAttachedTags(ctx, AttachedQuery{
		OwnerEntity: s.cfg.OwnerEntity,
		Intersect:   meta.Intersect,
		OwnerID:     s.cfg.OwnerID,
		Scope:       s.cfg.Scope,
		ViewerLCID:  s.cfg.ViewerLCID,
	})
	if err != nil {
		return nil, s.fail("load attached tags", errs.Service("load attached tags", err))
	}

	tags := s.foldAttached(rows)

	s.mu.Lock()
	s.attached.Load(tags)
	s.mu.Unlock()

	s.log.Debug("loaded attached tags", zap.Int("count", len(tags)))
	return append([]tag.Tag(nil), tags...), nil
}

// foldAttached keeps one tag per id. A tag outside the viewer locale that has a
// translation in another locale is shown under the translated name; of several
// rows for one id the best ranked wins.
func (s *Service) foldAttached(rows []AttachedRecord) []tag.Tag {
	viewer := s.cfg.ViewerLCID
	out := make([]tag.Tag, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		t := tag.New(tag.Params{
			ID:         row.ID,
			Name:       row.Name,
			LCID:       row.LCID,
			Scope:      s.cfg.Scope,
			ViewerLCID: viewer,
			OwnerID:    s.cfg.OwnerID,
			Persisted:  true,
		})
		if row.TranslatedName != "" && t.LCID != viewer && tag.NormalizeLCID(row.TranslatedLCID) != t.LCID {
			t.Translate(row.TranslatedName, row.TranslatedLCID, viewer)
		}

		if i, ok := index[t.ID]; ok {
			if t.Preference < out[i].Preference {
				out[i] = t
			}
			continue
		}
		index[t.ID] = len(out)
		out = append(out, t)
	}
	return out
}

// Search returns the ranked candidates for a name fragment. Text shorter than
// the minimum input length, or a suspended Service, yields no candidates and
// no backend call. The attached set is never modified.
func (s *Service) Search(ctx context.Context, text string) ([]tag.Tag, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < s.cfg.MinInputLength {
		return nil, nil
	}
	if s.Faulted() {
		s.log.Debug("search skipped while suspended", zap.String("text", text))
		return nil, nil
	}

	records, err := s.backend.QueryTags(ctx, text, s.cfg.Scope)
	if err != nil {
		return nil, s.fail("search tags", errs.Service("search tags", err))
	}
	translations, err := s.backend.QueryTagTranslations(ctx, text, s.cfg.Scope, s.cfg.ViewerLCID)
	if err != nil {
		return nil, s.fail("search tags", errs.Service("search tag translations", err))
	}

	fresh := make([]tag.Tag, 0, len(records))
	for _, r := range records {
		scope := r.Scope
		if scope == "" {
			scope = s.cfg.Scope
		}
		fresh = append(fresh, tag.New(tag.Params{
			ID:         r.ID,
			Name:       r.Name,
			LCID:       r.LCID,
			Scope:      scope,
			ViewerLCID: s.cfg.ViewerLCID,
			Persisted:  true,
		}))
	}
	translated := make([]tag.Tag, 0, len(translations))
	for _, r := range translations {
		tr := tag.NewTranslation("", r.ParentID, r.LCID, r.Name)
		translated = append(translated, tr.AsTag(s.cfg.Scope, s.cfg.ViewerLCID))
	}

	candidates := tag.Resolve(fresh, translated, s.Attached())
	s.log.Debug("search resolved",
		zap.String("text", text),
		zap.Int("fresh", len(fresh)),
		zap.Int("translated", len(translated)),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// AttachByNameOrID relates a tag to the owner record. With an id the existing
// tag is linked directly; an id without a name is looked up first so the
// attached tag carries its stored name and locale. An id already in the
// attached set returns that tag and makes no backend call. Without an id, an
// exact name match in the scope and viewer locale is reused, or a new tag is
// created and given the viewer's language first. A tag created before a later
// step fails is not deleted.
func (s *Service) AttachByNameOrID(ctx context.Context, name, id string) (tag.Tag, error) {
	name = strings.TrimSpace(name)
	id = strings.TrimSpace(id)
	if name == "" && id == "" {
		return tag.Tag{}, errs.New(errs.CodeInvalidInput, "tag name or id is required")
	}
	if s.Faulted() {
		return tag.Tag{}, errs.ErrSuspended
	}

	s.mu.Lock()
	existing, ok := s.attached.Find(id)
	s.mu.Unlock()
	if ok {
		return existing, nil
	}

	meta, err := s.metadata(ctx)
	if err != nil {
		return tag.Tag{}, s.fail("attach tag", err)
	}

	lcid := s.cfg.ViewerLCID
	if name == "" {
		found, err := s.backend.FindTagByID(ctx, id)
		if err != nil {
			return tag.Tag{}, s.fail("attach tag", errs.Service("find tag", err))
		}
		if found == nil {
			return tag.Tag{}, errs.Newf(errs.CodeTagNotFound, "no tag with id %q", id)
		}
		name = found.Name
		if found.LCID != "" {
			lcid = found.LCID
		}
	}

	t := tag.New(tag.Params{
		ID:         id,
		Name:       name,
		LCID:       lcid,
		Scope:      s.cfg.Scope,
		ViewerLCID: s.cfg.ViewerLCID,
		OwnerID:    s.cfg.OwnerID,
	})

	if id == "" {
		found, err := s.backend.FindTag(ctx, name, s.cfg.Scope, s.cfg.ViewerLCID)
		if err != nil {
			return tag.Tag{}, s.fail("attach tag", errs.Service("find tag", err))
		}
		if found != nil {
			t.ID = found.ID
		} else {
			created, err := s.createTag(ctx, meta, name)
			if err != nil {
				return tag.Tag{}, s.fail("attach tag", err)
			}
			t.ID = created
		}
	}

	err = s.link(ctx, "attach tag", Relationship{
		PrimaryID:         s.cfg.OwnerID,
		RelatedID:         t.ID,
		PrimaryCollection: meta.OwnerCollection,
		Name:              meta.Relationship,
		RelatedCollection: meta.TagCollection,
	})
	if err != nil {
		return tag.Tag{}, s.fail("attach tag", err)
	}

	t.MarkPersisted(t.ID)
	s.mu.Lock()
	s.attached.Append(t)
	s.mu.Unlock()

	s.log.Info("tag attached", zap.String("tag_id", t.ID), zap.String("name", t.Name))
	return t, nil
}

// createTag inserts a tag and links it to the language of the viewer locale.
func (s *Service) createTag(ctx context.Context, meta Metadata, name string) (string, error) {
	id, err := s.backend.CreateTag(ctx, name, s.cfg.Scope)
	if err != nil {
		return "", errs.Service("create tag", err)
	}
	if id == "" {
		return "", errs.Newf(errs.CodeTagNotCreated, "tag %q could not be created", name)
	}
	lang, err := s.backend.FindLanguageByLocale(ctx, s.cfg.ViewerLCID)
	if err != nil {
		return "", errs.Service("find language", err)
	}
	if lang == nil || lang.ID == "" {
		return "", errs.Newf(errs.CodeLanguageNotFound, "no language record for locale %q", s.cfg.ViewerLCID)
	}

	err = s.link(ctx, "link tag language", Relationship{
		PrimaryID:         lang.ID,
		RelatedID:         id,
		PrimaryCollection: meta.LanguageCollection,
		Name:              s.cfg.LanguageRelationship,
		RelatedCollection: meta.TagCollection,
	})
	if err != nil {
		return "", err
	}
	s.log.Debug("tag created",
		zap.String("tag_id", id),
		zap.String("name", name),
		zap.String("language", lang.DisplayName()),
	)
	return id, nil
}

func (s *Service) link(ctx context.Context, op string, rel Relationship) error {
	ok, err := s.backend.CreateRelationship(ctx, rel)
	if err != nil {
		return errs.Service(op, err)
	}
	if !ok {
		return errs.Newf(errs.CodeRelationship, "%s: relationship %s could not be created", op, rel.Name)
	}
	return nil
}

// Detach removes the link between the owner record and the tag. The tag
// record itself is kept. On success the tag leaves the attached set.
func (s *Service) Detach(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, errs.New(errs.CodeInvalidInput, "tag id is required")
	}
	if s.Faulted() {
		return false, errs.ErrSuspended
	}

	meta, err := s.metadata(ctx)
	if err != nil {
		return false, s.fail("detach tag", err)
	}

	s.mu.Lock()
	known := s.attached.Contains(id)
	s.mu.Unlock()

	ok, err := s.backend.DeleteRelationship(ctx, meta.OwnerCollection, s.cfg.OwnerID, meta.Relationship, id)
	if err != nil {
		return false, s.fail("detach tag", errs.Service("detach tag", err))
	}
	if !ok {
		s.trip("detach tag", fmt.Errorf("relationship %s to %s was not removed", meta.Relationship, id))
		return false, nil
	}

	s.mu.Lock()
	s.attached.RemoveByID(id)
	s.mu.Unlock()

	s.log.Info("tag detached", zap.String("tag_id", id), zap.Bool("was_attached", known))
	return true, nil
}

// Update renames a tag translation. Not supported yet.
func (s *Service) Update(_ context.Context, id, name string) error {
	s.log.Debug("tag update requested", zap.String("tag_id", id), zap.String("name", name))
	return errs.ErrNotImplemented
}

// Handle dispatches one host event to the matching operation.
func (s *Service) Handle(ctx context.Context, ev Event) (Outcome, error) {
	switch e := ev.(type) {
	case InputChanged:
		candidates, err := s.Search(ctx, e.Text)
		return Outcome{Candidates: candidates}, err
	case Added:
		t, err := s.AttachByNameOrID(ctx, e.Name, e.ID)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Tag: &t}, nil
	case Removed:
		ok, err := s.Detach(ctx, e.ID)
		return Outcome{Removed: ok}, err
	case Updated:
		return Outcome{}, s.Update(ctx, e.ID, e.Name)
	default:
		return Outcome{}, fmt.Errorf("unsupported event %T", ev)
	}
}

func (s *Service) fail(op string, err error) error {
	s.trip(op, err)
	return err
}

func (s *Service) trip(op string, err error) {
	s.mu.Lock()
	s.breaker.trip()
	s.mu.Unlock()
	s.log.Warn("operation failed, suspending",
		zap.String("op", op),
		zap.Duration("for", s.cfg.BreakerTimeout),
		zap.Error(err),
	)
}
