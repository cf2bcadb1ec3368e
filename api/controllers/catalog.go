package controllers

import (
	"net/http"

	"github.com/bargainly/bargainly-backend/api/responses"
	"github.com/bargainly/bargainly-backend/internal/catalog"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/logger"
)

// CatalogProducts returns the flattened live catalog for the merchant.
func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		variants, err := svc.ListVariants(ctx, merchantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, variants)
	}
}

// CatalogCollections returns the live catalog grouped by product type.
func CatalogCollections(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		collections, err := svc.ListCollections(ctx, merchantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, collections)
	}
}
