package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/storage"
)

// Service exposes the shopping cart of the current session. Every mutation
// persists the full snapshot and returns it.
type Service interface {
	Get(ctx context.Context) (Cart, error)
	Add(ctx context.Context, item Item, quantity int) (Cart, error)
	Remove(ctx context.Context, productID int) (Cart, error)
	UpdateQuantity(ctx context.Context, productID, quantity int) (Cart, error)
	Clear(ctx context.Context) (Cart, error)
	Save(ctx context.Context, c Cart) (Cart, error)
}

// ServiceParams bundles the cart dependencies.
type ServiceParams struct {
	Store  storage.Store
	Logger *logger.Logger
}

type service struct {
	mu    sync.Mutex
	store storage.Store
	logg  *logger.Logger
}

// NewService builds a cart service backed by the provided storage.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("storage required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{store: params.Store, logg: logg}, nil
}

func (s *service) Get(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *service) Add(ctx context.Context, item Item, quantity int) (Cart, error) {
	return s.mutate(ctx, func(c *Cart) {
		if i := c.indexOf(item.ProductID); i >= 0 {
			c.Items[i].Quantity += quantity
			return
		}
		c.Items = append(c.Items, Line{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  quantity,
			ImageURL:  item.ImageURL,
		})
	})
}

func (s *service) Remove(ctx context.Context, productID int) (Cart, error) {
	return s.mutate(ctx, func(c *Cart) {
		if i := c.indexOf(productID); i >= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
	})
}

// UpdateQuantity sets an absolute quantity. Zero or less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, productID, quantity int) (Cart, error) {
	return s.mutate(ctx, func(c *Cart) {
		i := c.indexOf(productID)
		if i < 0 {
			return
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
		c.Items[i].Quantity = quantity
	})
}

func (s *service) Clear(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	empty := Empty()
	if err := s.persist(ctx, empty); err != nil {
		return Cart{}, err
	}
	return empty, nil
}

// Save overwrites the stored cart with c after recomputing its total.
func (s *service) Save(ctx context.Context, c Cart) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c = c.normalized()
	if err := s.persist(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *service) mutate(ctx context.Context, fn func(c *Cart)) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return Cart{}, err
	}
	fn(&c)
	c = c.normalized()
	if err := s.persist(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (s *service) load(ctx context.Context) (Cart, error) {
	var c Cart
	found, err := storage.LoadJSON(ctx, s.store, storage.KeyCart, &c)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		s.logg.Warn(s.logg.WithStorageKey(ctx, storage.KeyCart), "stored cart unreadable, starting empty")
		return Empty(), nil
	case err != nil:
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	case !found:
		return Empty(), nil
	}
	return c.normalized(), nil
}

func (s *service) persist(ctx context.Context, c Cart) error {
	if err := storage.SaveJSON(ctx, s.store, storage.KeyCart, c); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart")
	}
	return nil
}
