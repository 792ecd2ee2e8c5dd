package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListTags fetches every tag owned by the authenticated user.
func (c *Client) ListTags(ctx context.Context) ([]TagPayload, error) {
	var out []TagPayload
	if err := c.getJSON(ctx, "listTags", "/api/tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTag creates a tag and returns the server representation.
func (c *Client) CreateTag(ctx context.Context, name string) (*TagPayload, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/tags",
		body:   map[string]string{"name": name},
		authed: true,
	})
	if err != nil {
		return nil, wrapError("createTag", err)
	}

	var out TagPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, wrapError("createTag", fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

// UpdateTag renames a tag and returns the server representation.
func (c *Client) UpdateTag(ctx context.Context, tagID, name string) (*TagPayload, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/tags/" + tagID,
		body:   map[string]string{"name": name},
		authed: true,
	})
	if err != nil {
		return nil, wrapError("updateTag", err)
	}

	var out TagPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, wrapError("updateTag", fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, tagID string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/api/tags/" + tagID,
		authed: true,
	})
	if err != nil {
		return wrapError("deleteTag", err)
	}
	return nil
}
