package tagger

import (
	"context"

	"github.com/gravitrone/polytag/internal/errs"
)

// Metadata names the collections and relationships the Service writes through.
type Metadata struct {
	OwnerCollection    string
	TagCollection      string
	LanguageCollection string
	Relationship       string
	Intersect          string
}

// metadataState is either unresolved or holds a fully resolved Metadata.
// A failed resolution leaves it unresolved so the next call tries again.
type metadataState struct {
	resolved bool
	meta     Metadata
}

func (s *Service) metadata(ctx context.Context) (Metadata, error) {
	s.mu.Lock()
	if s.meta.resolved {
		m := s.meta.meta
		s.mu.Unlock()
		return m, nil
	}
	s.mu.Unlock()

	m, err := s.resolveMetadata(ctx)
	if err != nil {
		return Metadata{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.meta.resolved {
		s.meta = metadataState{resolved: true, meta: m}
	}
	return s.meta.meta, nil
}

func (s *Service) resolveMetadata(ctx context.Context) (Metadata, error) {
	var m Metadata
	var err error

	if m.OwnerCollection, err = s.backend.ResolveEntitySetName(ctx, s.cfg.OwnerEntity); err != nil {
		return Metadata{}, errs.Service("resolve entity metadata", err)
	}
	if m.TagCollection, err = s.backend.ResolveEntitySetName(ctx, s.cfg.TagEntity); err != nil {
		return Metadata{}, errs.Service("resolve entity metadata", err)
	}
	if m.LanguageCollection, err = s.backend.ResolveEntitySetName(ctx, s.cfg.LanguageEntity); err != nil {
		return Metadata{}, errs.Service("resolve entity metadata", err)
	}

	m.Relationship = s.cfg.RelationshipName
	m.Intersect = s.cfg.IntersectCollection
	if m.Relationship == "" || m.Intersect == "" {
		name, intersect, err := s.backend.ResolveManyToManyRelationship(ctx, s.cfg.OwnerEntity, s.cfg.TagEntity)
		if err != nil {
			return Metadata{}, errs.Service("resolve relationship metadata", err)
		}
		if m.Relationship == "" {
			m.Relationship = name
		}
		if m.Intersect == "" {
			m.Intersect = intersect
		}
	}
	return m, nil
}
