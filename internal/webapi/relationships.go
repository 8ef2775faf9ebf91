package webapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gravitrone/polytag/internal/tagger"
)

// CreateRelationship associates two records through a collection-valued
// navigation property of the primary record.
func (c *Client) CreateRelationship(ctx context.Context, rel tagger.Relationship) (bool, error) {
	path := fmt.Sprintf("/%s(%s)/%s/$ref", rel.PrimaryCollection, rel.PrimaryID, rel.Name)
	body := map[string]string{
		"@odata.id": fmt.Sprintf("%s/%s(%s)", c.baseURL, rel.RelatedCollection, rel.RelatedID),
	}
	resp, err := c.do(ctx, http.MethodPost, path, body, nil)
	if err != nil {
		return false, fmt.Errorf("associate %s: %w", rel.Name, err)
	}
	return resp.status >= 200 && resp.status < 300, nil
}

// DeleteRelationship removes the association between the owner and a related
// record. A missing association reports false without an error.
func (c *Client) DeleteRelationship(ctx context.Context, ownerCollection, ownerID, relationship, relatedID string) (bool, error) {
	path := fmt.Sprintf("/%s(%s)/%s(%s)/$ref", ownerCollection, ownerID, relationship, relatedID)
	resp, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("disassociate %s: %w", relationship, err)
	}
	return resp.status >= 200 && resp.status < 300, nil
}
