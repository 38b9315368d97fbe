// Package reviews keeps product reviews in local storage. The remote API
// has no product comments, so nothing here touches the network.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront/pkg/dummyjson"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/storage"
)

// DefaultAuthor names reviews posted without a signed-in user.
const DefaultAuthor = "currentUser"

// Review is a comment attached to a product.
type Review struct {
	ID        int                   `json:"id"`
	Body      string                `json:"body"`
	ProductID int                   `json:"productId"`
	PostID    int                   `json:"postId"`
	User      dummyjson.CommentUser `json:"user"`
}

// Seed is written the first time reviews are read from empty storage.
func Seed() []Review {
	return []Review{{
		ID:        1,
		Body:      "This is a great product! Highly recommended.",
		ProductID: 1,
		PostID:    1,
		User:      dummyjson.CommentUser{ID: 1, Username: "johndoe"},
	}}
}

type Service interface {
	List(ctx context.Context, productID int) ([]Review, error)
	Add(ctx context.Context, productID int, body, author string) (Review, error)
}

type ServiceParams struct {
	Store  storage.Store
	Logger *logger.Logger
	// UserID picks the author id for new reviews. Defaults to a random id
	// below 1000.
	UserID func() int
}

type service struct {
	mu     sync.Mutex
	store  storage.Store
	logg   *logger.Logger
	userID func() int
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("storage required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	userID := params.UserID
	if userID == nil {
		userID = func() int { return rand.IntN(1000) }
	}
	return &service{store: params.Store, logg: logg, userID: userID}, nil
}

func (s *service) List(ctx context.Context, productID int) ([]Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Review, 0, len(all))
	for _, r := range all {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *service) Add(ctx context.Context, productID int, body, author string) (Review, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Review{}, pkgerrors.New(pkgerrors.CodeValidation, "review body is required").
			WithDetails(map[string]string{"body": "required"})
	}
	if productID <= 0 {
		return Review{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = DefaultAuthor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return Review{}, err
	}
	review := Review{
		ID:        len(all) + 1,
		Body:      body,
		ProductID: productID,
		PostID:    productID,
		User:      dummyjson.CommentUser{ID: s.userID(), Username: author},
	}
	all = append(all, review)
	if err := storage.SaveJSON(ctx, s.store, storage.KeyProductComments, all); err != nil {
		return Review{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save reviews")
	}
	return review, nil
}

// load returns every stored review, seeding storage when the key is absent.
func (s *service) load(ctx context.Context) ([]Review, error) {
	var all []Review
	found, err := storage.LoadJSON(ctx, s.store, storage.KeyProductComments, &all)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		s.logg.Warn(s.logg.WithStorageKey(ctx, storage.KeyProductComments), "stored reviews unreadable, starting empty")
		return []Review{}, nil
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reviews")
	case found:
		return all, nil
	}

	seed := Seed()
	if err := storage.SaveJSON(ctx, s.store, storage.KeyProductComments, seed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seed reviews")
	}
	return seed, nil
}
