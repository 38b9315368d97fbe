// Package catalog serves the storefront pages backed by the remote catalog.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/storefront/pkg/dummyjson"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
)

const (
	featuredLimit       = 8
	categoryImageFanout = 4
)

// MainCategories are the category slugs featured on the home page.
var MainCategories = []string{"smartphones", "laptops", "fragrances", "skin-care", "groceries", "home-decoration"}

type FeaturedCategory struct {
	dummyjson.Category
	Image string `json:"image"`
}

type Home struct {
	Featured   []dummyjson.Product `json:"featured"`
	Categories []FeaturedCategory  `json:"categories"`
}

// Service exposes the shopper-facing catalog views.
type Service interface {
	Home(ctx context.Context) (*Home, error)
	Shop(ctx context.Context, q ShopQuery) (*ShopResult, error)
	Product(ctx context.Context, id int) (*dummyjson.Product, error)
}

type catalogAPI interface {
	ListProducts(ctx context.Context, page, limit int) (*dummyjson.ProductPage, error)
	GetProduct(ctx context.Context, id int) (*dummyjson.Product, error)
	SearchProducts(ctx context.Context, q string) (*dummyjson.ProductPage, error)
	ListCategories(ctx context.Context) ([]dummyjson.Category, error)
	ProductsByCategory(ctx context.Context, slug string, limit int) (*dummyjson.ProductPage, error)
}

type ServiceParams struct {
	API      catalogAPI
	Logger   *logger.Logger
	PageSize int
}

type service struct {
	api      catalogAPI
	logg     *logger.Logger
	pageSize int
}

func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("remote api required")
	}
	s := &service{api: params.API, logg: params.Logger, pageSize: pagination.NormalizeLimit(params.PageSize)}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	return s, nil
}

// Home loads the featured products and the main categories, then one
// thumbnail per category.
func (s *service) Home(ctx context.Context) (*Home, error) {
	var (
		featured   *dummyjson.ProductPage
		categories []dummyjson.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		featured, err = s.api.ListProducts(gctx, 1, featuredLimit)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.api.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	main := make([]FeaturedCategory, 0, len(MainCategories))
	for _, c := range categories {
		if isMainCategory(c.Slug) {
			main = append(main, FeaturedCategory{Category: c})
		}
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(categoryImageFanout)
	for i := range main {
		g.Go(func() error {
			page, err := s.api.ProductsByCategory(gctx, main[i].Slug, 1)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to fetch images for category: "+main[i].Slug)
			}
			if len(page.Products) > 0 {
				main[i].Image = page.Products[0].Thumbnail
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logg.Error(ctx, "home category images failed", err)
		return nil, err
	}

	return &Home{Featured: featured.Products, Categories: main}, nil
}

// Shop fetches either a search result or one catalog page, then filters and
// sorts it locally. Filtering applies to the fetched page only.
func (s *service) Shop(ctx context.Context, q ShopQuery) (*ShopResult, error) {
	q.Search = strings.TrimSpace(q.Search)
	page := pagination.NormalizePage(q.Page)

	var (
		res *dummyjson.ProductPage
		err error
	)
	if q.Search != "" {
		page = 1
		res, err = s.api.SearchProducts(ctx, q.Search)
	} else {
		res, err = s.api.ListProducts(ctx, page, s.pageSize)
	}
	if err != nil {
		return nil, err
	}

	products := Filter(res.Products, q)
	Sort(products, q.Sort)

	out := &ShopResult{
		Products:   products,
		Shown:      len(products),
		Total:      res.Total,
		Page:       page,
		Searching:  q.Search != "",
		Categories: ShopCategories,
	}
	if !out.Searching {
		out.TotalPages = pagination.TotalPages(res.Total, s.pageSize)
	}
	return out, nil
}

func (s *service) Product(ctx context.Context, id int) (*dummyjson.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return s.api.GetProduct(ctx, id)
}

func isMainCategory(slug string) bool {
	for _, m := range MainCategories {
		if m == slug {
			return true
		}
	}
	return false
}
