package controllers

import (
	"net/http"

	"github.com/bargainly/bargainly-backend/api/responses"
	"github.com/bargainly/bargainly-backend/api/validators"
	"github.com/bargainly/bargainly-backend/internal/credentials"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/logger"
)

// CredentialsSet stores or updates the merchant's shop connection.
func CredentialsSet(svc credentials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credential service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload credentials.SetCredentialsInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.SetCredentials(ctx, merchantID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// CredentialsGet returns the masked connection details.
func CredentialsGet(svc credentials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credential service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.GetCredentials(ctx, merchantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// CredentialsRemove disconnects the merchant's shop.
func CredentialsRemove(svc credentials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credential service unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RemoveCredentials(ctx, merchantID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}
