package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/bargainly/bargainly-backend/internal/credentials"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/shopify"
)

type stubCredentialService struct {
	dto credentials.CredentialDTO
	err error
}

func (s stubCredentialService) SetCredentials(context.Context, uuid.UUID, credentials.SetCredentialsInput) (credentials.CredentialDTO, error) {
	return s.dto, s.err
}

func (s stubCredentialService) GetCredentials(context.Context, uuid.UUID) (credentials.CredentialDTO, error) {
	return s.dto, s.err
}

func (s stubCredentialService) RemoveCredentials(context.Context, uuid.UUID) error {
	return s.err
}

func (s stubCredentialService) Resolve(context.Context, uuid.UUID) (shopify.Credentials, error) {
	return shopify.Credentials{}, s.err
}

func TestCredentialsSetSuccess(t *testing.T) {
	svc := stubCredentialService{dto: credentials.CredentialDTO{ShopName: "acme-supply", APIVersion: "2024-01", TokenMasked: "****cdef"}}
	handler := CredentialsSet(svc, nil)

	req := merchantRequest(http.MethodPost, "/api/v1/catalog/credentials",
		`{"shop_name":"acme-supply","access_token":"shpat_0123456789abcdef"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data credentials.CredentialDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TokenMasked != "****cdef" {
		t.Fatalf("unexpected masked token: %q", envelope.Data.TokenMasked)
	}
}

func TestCredentialsSetRejectsUnknownFields(t *testing.T) {
	handler := CredentialsSet(stubCredentialService{}, nil)

	req := merchantRequest(http.MethodPost, "/api/v1/catalog/credentials",
		`{"shop":"acme"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCredentialsGetNotFound(t *testing.T) {
	svc := stubCredentialService{err: pkgerrors.New(pkgerrors.CodeNotFound, "credentials not found")}
	handler := CredentialsGet(svc, nil)

	req := merchantRequest(http.MethodGet, "/api/v1/catalog/credentials", "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCredentialsRemoveMissingMerchantContext(t *testing.T) {
	handler := CredentialsRemove(stubCredentialService{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/catalog/credentials", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
