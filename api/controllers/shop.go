package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/reviews"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const maxReviewLength = 2000

type createReviewRequest struct {
	Body string `json:"body" validate:"required"`
}

func ShopHome(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		home, err := svc.Home(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, home)
	}
}

// ShopProducts serves the shop grid: ?page, ?q, ?category, ?minPrice,
// ?maxPrice and ?sort.
func ShopProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseShopQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.Shop(r.Context(), q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

func parseShopQuery(r *http.Request) (catalog.ShopQuery, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
	if err != nil {
		return catalog.ShopQuery{}, err
	}
	minPrice, err := validators.ParseQueryDecimal(r, "minPrice")
	if err != nil {
		return catalog.ShopQuery{}, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "maxPrice")
	if err != nil {
		return catalog.ShopQuery{}, err
	}
	if minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		return catalog.ShopQuery{}, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must not exceed maxPrice")
	}
	sort, err := enums.ParseSortOption(strings.TrimSpace(r.URL.Query().Get("sort")))
	if err != nil {
		return catalog.ShopQuery{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort option").
			WithDetails(map[string]any{"field": "sort"})
	}
	return catalog.ShopQuery{
		Page:     page,
		Search:   validators.SanitizeString(r.URL.Query().Get("q"), 100),
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     sort,
	}, nil
}

func ShopProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		p, err := svc.Product(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, p)
	}
}

func ProductReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ProductReviewCreate posts a review as the signed-in user, or anonymously.
func ProductReviewCreate(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req createReviewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		author := ""
		if sess := middleware.SessionFromContext(r.Context()); sess != nil {
			author = sess.User.Username
		}
		review, err := svc.Add(r.Context(), id, validators.SanitizeString(req.Body, maxReviewLength), author)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}
