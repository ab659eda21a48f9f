package controllers

import (
	"net/http"

	"github.com/fastchange/fastchange-backend/api/responses"
	"github.com/fastchange/fastchange-backend/api/validators"
	"github.com/fastchange/fastchange-backend/internal/catalog"
	"github.com/fastchange/fastchange-backend/pkg/config"
	pkgerrors "github.com/fastchange/fastchange-backend/pkg/errors"
	"github.com/fastchange/fastchange-backend/pkg/logger"
	"github.com/fastchange/fastchange-backend/pkg/pagination"
)

// ListProducts serves one page of the editable product table. Cursors come
// from the previous page's pageInfo; after and before are mutually exclusive.
func ListProducts(svc catalog.Service, cfg config.ListingConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		first, err := validators.ParseQueryInt(r, "first", cfg.DefaultPageSize, 1, cfg.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			First:  first,
			After:  validators.QueryString(r, "after"),
			Before: validators.QueryString(r, "before"),
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

type saveProductsRequest struct {
	UpdatedProducts catalog.ChangeSet `json:"updatedProducts" validate:"required"`
}

type saveProductsResponse struct {
	Success bool                     `json:"success"`
	Results []catalog.MutationResult `json:"results"`
}

// SaveProducts applies the accumulated edits. The response always carries a
// result per touched product; field failures live inside each result rather
// than failing the request.
func SaveProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload saveProductsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.Save(r.Context(), payload.UpdatedProducts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, saveProductsResponse{Success: true, Results: results})
	}
}
