package dummyjson

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// ListProducts fetches one page of the catalog. The API pages by offset, so
// page is converted to skip=(page-1)*limit.
func (c *Client) ListProducts(ctx context.Context, page, limit int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("skip", strconv.Itoa((page-1)*limit))

	var out ProductPage
	if err := c.do(ctx, request{op: "products.list", method: http.MethodGet, path: "/products", query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (*Product, error) {
	var out Product
	if err := c.do(ctx, request{op: "products.get", method: http.MethodGet, path: "/products/" + strconv.Itoa(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchProducts runs a free-text search across the catalog.
func (c *Client) SearchProducts(ctx context.Context, q string) (*ProductPage, error) {
	query := url.Values{}
	query.Set("q", strings.TrimSpace(q))

	var out ProductPage
	if err := c.do(ctx, request{op: "products.search", method: http.MethodGet, path: "/products/search", query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, request{op: "products.categories", method: http.MethodGet, path: "/products/categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, slug string, limit int) (*ProductPage, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category slug is required")
	}
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out ProductPage
	req := request{op: "products.by_category", method: http.MethodGet, path: "/products/category/" + url.PathEscape(slug), query: query}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, request{op: "products.delete", method: http.MethodDelete, path: "/products/" + strconv.Itoa(id)}, nil)
}
