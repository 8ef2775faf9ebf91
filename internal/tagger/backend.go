package tagger

import (
	"context"

	"github.com/gravitrone/polytag/internal/tag"
)

// Backend is the transport into the tag store. Implementations return
// transport failures as errors; the Service wraps them with the operation that
// triggered the call.
type Backend interface {
	QueryTags(ctx context.Context, filter, scope string) ([]TagRecord, error)
	QueryTagTranslations(ctx context.Context, filter, scope, viewerLCID string) ([]TranslationRecord, error)
	QueryAttachedTags(ctx context.Context, q AttachedQuery) ([]AttachedRecord, error)
	FindTag(ctx context.Context, name, scope, lcid string) (*TagRecord, error)
	FindTagByID(ctx context.Context, id string) (*TagRecord, error)
	CreateTag(ctx context.Context, name, scope string) (string, error)
	CreateRelationship(ctx context.Context, rel Relationship) (bool, error)
	DeleteRelationship(ctx context.Context, ownerCollection, ownerID, relationship, relatedID string) (bool, error)
	ResolveEntitySetName(ctx context.Context, entity string) (string, error)
	ResolveManyToManyRelationship(ctx context.Context, entity, target string) (name, intersect string, err error)
	FindLanguageByLocale(ctx context.Context, lcid string) (*tag.Language, error)
}

// TagRecord is a tag row as returned by the backend.
type TagRecord struct {
	ID    string
	Name  string
	LCID  string
	Scope string
}

// TranslationRecord is a translated name for a parent tag.
type TranslationRecord struct {
	ParentID string
	Name     string
	LCID     string
}

// AttachedRecord is a tag related to the owner record, joined with at most one
// translation.
type AttachedRecord struct {
	ID             string
	Name           string
	LCID           string
	TranslatedName string
	TranslatedLCID string
}

// AttachedQuery selects the tags related to one owner record.
type AttachedQuery struct {
	OwnerEntity string
	Intersect   string
	OwnerID     string
	Scope       string
	ViewerLCID  string
}

// Relationship identifies a link between two records through a collection
// valued navigation property of the primary record.
type Relationship struct {
	PrimaryID         string
	RelatedID         string
	PrimaryCollection string
	Name              string
	RelatedCollection string
}
