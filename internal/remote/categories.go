package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ListCategories fetches every category owned by the authenticated user.
func (c *Client) ListCategories(ctx context.Context) ([]CategoryPayload, error) {
	var out []CategoryPayload
	if err := c.getJSON(ctx, "listCategories", "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category and returns the server representation.
func (c *Client) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryPayload, error) {
	if req.TagNames == nil {
		req.TagNames = []string{}
	}
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/categories",
		body:   req,
		authed: true,
	})
	if err != nil {
		return nil, wrapError("createCategory", err)
	}

	var out CategoryPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, wrapError("createCategory", fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

// UpdateCategory applies a partial update and returns the server representation.
func (c *Client) UpdateCategory(ctx context.Context, categoryID string, req CategoryUpdateRequest) (*CategoryPayload, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/categories/" + categoryID,
		body:   req,
		authed: true,
	})
	if err != nil {
		return nil, wrapError("updateCategory", err)
	}

	var out CategoryPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, wrapError("updateCategory", fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, categoryID string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/api/categories/" + categoryID,
		authed: true,
	})
	if err != nil {
		return wrapError("deleteCategory", err)
	}
	return nil
}

// ToggleVisibility flips a category between public and private.
func (c *Client) ToggleVisibility(ctx context.Context, categoryID string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/api/categories/" + categoryID + "/visibility",
		authed: true,
	})
	if err != nil {
		return wrapError("toggleVisibility", err)
	}
	return nil
}

// ListCategoryBookmarks fetches the bookmarks the server considers members of
// a category, including tag-matched ones.
func (c *Client) ListCategoryBookmarks(ctx context.Context, categoryID string) ([]BookmarkPayload, error) {
	var out []BookmarkPayload
	if err := c.getJSON(ctx, "listCategoryBookmarks", "/api/categories/"+categoryID+"/bookmarks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateShareToken asks the server for a share token covering a category.
// The server returns an existing token when one is still active. The token
// comes back as a bare string, either JSON-quoted or plain text.
func (c *Client) GenerateShareToken(ctx context.Context, categoryID string) (string, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/categories/" + categoryID + "/share-token",
		authed: true,
	})
	if err != nil {
		return "", wrapError("generateShareToken", err)
	}

	var token string
	if err := json.Unmarshal(body, &token); err != nil {
		token = strings.TrimSpace(string(body))
	}
	return token, nil
}

// GetSharedCategory resolves a share token into the shared category snapshot.
// The endpoint is public and needs no credentials.
func (c *Client) GetSharedCategory(ctx context.Context, token string) (*SharedCategoryPayload, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/categories/share/" + token,
	})
	if err != nil {
		return nil, wrapError("getSharedCategory", err)
	}

	var out SharedCategoryPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, wrapError("getSharedCategory", fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

// ImportSharedCategory asks the server to clone a shared category, with its
// bookmarks, into the authenticated user's account.
func (c *Client) ImportSharedCategory(ctx context.Context, token string) (*CategoryPayload, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/categories/share/" + token + "/import",
		authed: true,
	})
	if err != nil {
		return nil, wrapError("importSharedCategory", err)
	}

	var out CategoryPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, wrapError("importSharedCategory", fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

// DeleteShareToken revokes the active share token for a category.
func (c *Client) DeleteShareToken(ctx context.Context, categoryID string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/api/categories/" + categoryID + "/share-token",
		authed: true,
	})
	if err != nil {
		return wrapError("deleteShareToken", err)
	}
	return nil
}
