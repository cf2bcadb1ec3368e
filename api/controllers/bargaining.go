package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bargainly/bargainly-backend/api/middleware"
	"github.com/bargainly/bargainly-backend/api/responses"
	"github.com/bargainly/bargainly-backend/api/validators"
	"github.com/bargainly/bargainly-backend/internal/bargaining"
	"github.com/bargainly/bargainly-backend/pkg/enums"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/logger"
)

type setByCategoryPayload struct {
	Category string          `json:"category" validate:"required,min=1,max=255"`
	Behavior string          `json:"behavior" validate:"required"`
	MinPrice decimal.Decimal `json:"min_price"`
}

type setAllProductsPayload struct {
	Behavior string          `json:"behavior" validate:"required"`
	MinPrice decimal.Decimal `json:"min_price"`
}

type setByProductPayload struct {
	VariantID string          `json:"variant_id" validate:"required,min=1,max=64"`
	Behavior  string          `json:"behavior" validate:"required"`
	MinPrice  decimal.Decimal `json:"min_price"`
}

type setMinPricePayload struct {
	VariantID string          `json:"variant_id" validate:"required,min=1,max=64"`
	MinPrice  decimal.Decimal `json:"min_price"`
}

// BargainingSetByCategory applies a negotiation policy to every variant whose
// product type matches the requested category.
func BargainingSetByCategory(svc bargaining.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bargaining service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setByCategoryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ApplyToCategory(ctx, merchantID, payload.Category, bargaining.ApplyInput{
			Behavior: enums.BargainBehavior(payload.Behavior),
			MinPrice: payload.MinPrice,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BargainingSetAllProducts applies a negotiation policy to the whole catalog.
func BargainingSetAllProducts(svc bargaining.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bargaining service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setAllProductsPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ApplyToAllProducts(ctx, merchantID, bargaining.ApplyInput{
			Behavior: enums.BargainBehavior(payload.Behavior),
			MinPrice: payload.MinPrice,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BargainingSetByProduct applies a negotiation policy to one catalog variant.
func BargainingSetByProduct(svc bargaining.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bargaining service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setByProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ApplyToVariant(ctx, merchantID, payload.VariantID, bargaining.ApplyInput{
			Behavior: enums.BargainBehavior(payload.Behavior),
			MinPrice: payload.MinPrice,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BargainingSetMinPrice overwrites the floor price on an already configured
// variant without touching the catalog.
func BargainingSetMinPrice(svc bargaining.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bargaining service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setMinPricePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.SetMinPrice(ctx, merchantID, payload.VariantID, payload.MinPrice)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BargainingDeactivate disables negotiation for the variant in the URL.
func BargainingDeactivate(svc bargaining.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bargaining service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		variantID := strings.TrimSpace(chi.URLParam(r, "variantId"))
		if variantID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required"))
			return
		}

		result, err := svc.Deactivate(ctx, merchantID, variantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BargainingDetails lists every stored policy for the merchant.
func BargainingDetails(svc bargaining.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bargaining service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListPolicies(ctx, merchantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func merchantFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.MerchantIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "merchant context missing")
	}
	merchantID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid merchant id")
	}
	return merchantID, nil
}
