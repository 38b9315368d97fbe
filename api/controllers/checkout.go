package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	checkoutsvc "github.com/angelmondragon/storefront/internal/checkout"
	pkgcheckout "github.com/angelmondragon/storefront/pkg/checkout"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type formatFieldRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// CheckoutPlaceOrder charges the cart. Form rules are enforced by the
// service so they apply before any cart access.
func CheckoutPlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form pkgcheckout.Form
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conf, err := svc.PlaceOrder(r.Context(), form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, conf)
	}
}

// CheckoutFormat applies the input mask for one form field.
func CheckoutFormat(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req formatFieldRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"name":  req.Name,
			"value": pkgcheckout.FormatField(req.Name, req.Value),
		})
	}
}
