package webapi

import (
	"context"
	"fmt"
	"net/url"
)

type entityDefinition struct {
	EntitySetName string `json:"EntitySetName"`
}

type manyToMany struct {
	SchemaName          string `json:"SchemaName"`
	Entity1LogicalName  string `json:"Entity1LogicalName"`
	Entity2LogicalName  string `json:"Entity2LogicalName"`
	IntersectEntityName string `json:"IntersectEntityName"`
}

func definitionPath(entity string) string {
	return fmt.Sprintf("/EntityDefinitions(LogicalName=%s)", quote(entity))
}

// ResolveEntitySetName returns the collection name of an entity.
func (c *Client) ResolveEntitySetName(ctx context.Context, entity string) (string, error) {
	data, err := c.get(ctx, buildQuery(definitionPath(entity), url.Values{"$select": {"EntitySetName"}}))
	if err != nil {
		return "", fmt.Errorf("resolve entity set %s: %w", entity, err)
	}
	def, err := decodeOne[entityDefinition](data)
	if err != nil {
		return "", err
	}
	if def.EntitySetName == "" {
		return "", fmt.Errorf("resolve entity set %s: empty name", entity)
	}
	return def.EntitySetName, nil
}

// ResolveManyToManyRelationship finds the many-to-many relationship between
// entity and target and returns its schema name and intersect entity.
func (c *Client) ResolveManyToManyRelationship(ctx context.Context, entity, target string) (string, string, error) {
	path := buildQuery(definitionPath(entity)+"/ManyToManyRelationships", url.Values{
		"$select": {"SchemaName,Entity1LogicalName,Entity2LogicalName,IntersectEntityName"},
	})
	data, err := c.get(ctx, path)
	if err != nil {
		return "", "", fmt.Errorf("resolve relationship %s-%s: %w", entity, target, err)
	}
	rels, err := decodeList[manyToMany](data)
	if err != nil {
		return "", "", err
	}
	for _, r := range rels {
		if (r.Entity1LogicalName == entity && r.Entity2LogicalName == target) ||
			(r.Entity1LogicalName == target && r.Entity2LogicalName == entity) {
			return r.SchemaName, r.IntersectEntityName, nil
		}
	}
	return "", "", fmt.Errorf("no many-to-many relationship between %s and %s", entity, target)
}
