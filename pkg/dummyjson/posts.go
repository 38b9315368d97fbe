package dummyjson

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func pageQuery(limit, page int) url.Values {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("page", strconv.Itoa(page))
	return query
}

// ListPosts fetches posts with limit and page parameters. The upstream API
// only honours limit/skip, so every page number returns the first page.
func (c *Client) ListPosts(ctx context.Context, limit, page int) (*PostPage, error) {
	var out PostPage
	if err := c.do(ctx, request{op: "posts.list", method: http.MethodGet, path: "/posts", query: pageQuery(limit, page)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, id int) error {
	return c.do(ctx, request{op: "posts.delete", method: http.MethodDelete, path: "/posts/" + strconv.Itoa(id)}, nil)
}

func (c *Client) ListComments(ctx context.Context, limit, page int) (*CommentPage, error) {
	var out CommentPage
	if err := c.do(ctx, request{op: "comments.list", method: http.MethodGet, path: "/comments", query: pageQuery(limit, page)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, id int) error {
	return c.do(ctx, request{op: "comments.delete", method: http.MethodDelete, path: "/comments/" + strconv.Itoa(id)}, nil)
}
