// Package dashboard assembles the admin overview from the remote catalog.
package dashboard

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/storefront/pkg/dummyjson"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	recentLimit  = 10
	productLimit = 100
)

// Service provides the admin dashboard overview.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type remoteAPI interface {
	ListPosts(ctx context.Context, limit, page int) (*dummyjson.PostPage, error)
	ListComments(ctx context.Context, limit, page int) (*dummyjson.CommentPage, error)
	ListProducts(ctx context.Context, page, limit int) (*dummyjson.ProductPage, error)
}

type ServiceParams struct {
	API    remoteAPI
	Logger *logger.Logger
	// Rand returns values in [0,1) for the revenue jitter.
	Rand func() float64
}

type service struct {
	api  remoteAPI
	logg *logger.Logger
	rand func() float64
}

// NewService builds a dashboard service backed by the remote API.
func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("remote api required")
	}
	s := &service{api: params.API, logg: params.Logger, rand: params.Rand}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.rand == nil {
		s.rand = rand.Float64
	}
	return s, nil
}

// Overview fetches posts, comments and products concurrently. Any failure
// fails the whole overview.
func (s *service) Overview(ctx context.Context) (*Overview, error) {
	var (
		posts    *dummyjson.PostPage
		comments *dummyjson.CommentPage
		products *dummyjson.ProductPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.api.ListPosts(gctx, recentLimit, 1)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.api.ListComments(gctx, recentLimit, 1)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.api.ListProducts(gctx, 1, productLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logg.Error(ctx, "dashboard fetch failed", err)
		return nil, err
	}

	return &Overview{
		Stats: Stats{
			TotalPosts:    posts.Total,
			TotalProducts: products.Total,
			TotalComments: comments.Total,
			TotalRevenue:  InventoryValue(products.Products),
		},
		RevenueTrend:   RevenueTrend(products.Products, s.rand),
		Categories:     CategoryDistribution(products.Products),
		RecentPosts:    posts.Posts,
		RecentComments: comments.Comments,
	}, nil
}
