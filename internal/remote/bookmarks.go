package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ListBookmarks fetches every bookmark owned by the authenticated user.
func (c *Client) ListBookmarks(ctx context.Context) ([]BookmarkPayload, error) {
	var out []BookmarkPayload
	if err := c.getJSON(ctx, "listBookmarks", "/api/bookmarks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchBookmarks runs a server-side keyword search over the user's bookmarks.
func (c *Client) SearchBookmarks(ctx context.Context, keyword string) ([]BookmarkPayload, error) {
	query := url.Values{}
	query.Set("keyword", keyword)

	var out []BookmarkPayload
	if err := c.getJSON(ctx, "searchBookmarks", "/api/bookmarks/search", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFavoriteBookmarks fetches the user's favorited bookmarks.
func (c *Client) ListFavoriteBookmarks(ctx context.Context) ([]BookmarkPayload, error) {
	var out []BookmarkPayload
	if err := c.getJSON(ctx, "listFavoriteBookmarks", "/api/bookmarks/favorites", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBookmark creates a bookmark and returns the server representation.
func (c *Client) CreateBookmark(ctx context.Context, req BookmarkRequest) (*BookmarkPayload, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/bookmarks",
		body:   req,
		authed: true,
	})
	if err != nil {
		return nil, wrapError("createBookmark", err)
	}

	var out BookmarkPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, wrapError("createBookmark", fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

// UpdateBookmark applies a partial update and returns the server representation.
func (c *Client) UpdateBookmark(ctx context.Context, bookmarkID string, req BookmarkUpdateRequest) (*BookmarkPayload, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/bookmarks/" + bookmarkID,
		body:   req,
		authed: true,
	})
	if err != nil {
		return nil, wrapError("updateBookmark", err)
	}

	var out BookmarkPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, wrapError("updateBookmark", fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

// DeleteBookmark deletes a bookmark.
func (c *Client) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/api/bookmarks/" + bookmarkID,
		authed: true,
	})
	if err != nil {
		return wrapError("deleteBookmark", err)
	}
	return nil
}

// ToggleFavorite flips a bookmark's favorite flag server-side.
func (c *Client) ToggleFavorite(ctx context.Context, bookmarkID string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/api/bookmarks/" + bookmarkID + "/favorite",
		authed: true,
	})
	if err != nil {
		return wrapError("toggleFavorite", err)
	}
	return nil
}
