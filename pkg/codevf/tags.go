package codevf

import (
	"context"
	"net/http"
)

// tagsResponse is the envelope for GET /tags.
type tagsResponse struct {
	Tags []Tag `json:"tags"`
}

// ListTags returns the expertise tags available to the authenticated account.
// Tag IDs are passed to CreateTask via TaskRequest.TagID; the service applies
// the tag's cost multiplier and rejects unknown IDs.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var resp tagsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/tags", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}
