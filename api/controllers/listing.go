package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/listing"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
)

// ListRecords returns the merged local ++ remote window for ?page. The remote
// page is refetched when the page changes or ?refresh=true is passed.
func ListRecords[T listing.Entity[T]](l *listing.Listing[T], pageSize int, logg *logger.Logger) http.HandlerFunc {
	pageSize = pagination.NormalizeLimit(pageSize)
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pageSize, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		refresh, err := validators.ParseQueryBool(r, "refresh")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, total, err := l.LoadPage(r.Context(), page, limit, refresh)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessWithMeta(w, records, pagination.NewMeta(page, limit, total))
	}
}

// CreateRecord stores the body as a new local record. Any id or isLocal in
// the body is ignored.
func CreateRecord[T listing.Entity[T]](l *listing.Listing[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in listing.Record[T]
		if err := validators.DecodeJSONBodyLenient(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rec, err := l.Add(r.Context(), in.Item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rec)
	}
}

// UpdateRecord replaces the record named by the route id. Which partition it
// belongs to is decided by the listing, not the client.
func UpdateRecord[T listing.Entity[T]](l *listing.Listing[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var in listing.Record[T]
		if err := validators.DecodeJSONBodyLenient(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		existing, ok := l.Find(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "record not found"))
			return
		}
		rec, err := l.Edit(r.Context(), listing.Record[T]{Item: in.Item.WithEntityID(id), Local: existing.Local})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

func DeleteRecord[T listing.Entity[T]](l *listing.Listing[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := l.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
