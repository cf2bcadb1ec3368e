package credentials

import (
	"context"
	"errors"
	"strings"

	"github.com/bargainly/bargainly-backend/pkg/config"
	"github.com/bargainly/bargainly-backend/pkg/db"
	"github.com/bargainly/bargainly-backend/pkg/db/models"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/shopify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the credential service.
type ServiceParams struct {
	CredentialRepo *Repository
	Shopify        config.ShopifyConfig
}

// Service manages the per-merchant catalog connection.
type Service interface {
	SetCredentials(ctx context.Context, merchantID uuid.UUID, input SetCredentialsInput) (CredentialDTO, error)
	GetCredentials(ctx context.Context, merchantID uuid.UUID) (CredentialDTO, error)
	RemoveCredentials(ctx context.Context, merchantID uuid.UUID) error
	Resolve(ctx context.Context, merchantID uuid.UUID) (shopify.Credentials, error)
}

type service struct {
	credentialRepo *Repository
	defaultVersion string
}

// NewService builds a credential service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CredentialRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credential repo is required")
	}
	return &service{
		credentialRepo: params.CredentialRepo,
		defaultVersion: params.Shopify.DefaultAPIVersion,
	}, nil
}

// SetCredentials creates or updates the merchant's shop connection. On update,
// empty input fields keep the stored values.
func (s *service) SetCredentials(ctx context.Context, merchantID uuid.UUID, input SetCredentialsInput) (CredentialDTO, error) {
	if merchantID == uuid.Nil {
		return CredentialDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}

	shopName := strings.TrimSpace(input.ShopName)
	accessToken := strings.TrimSpace(input.AccessToken)
	apiVersion := strings.TrimSpace(input.APIVersion)

	existing, err := s.credentialRepo.FindByMerchant(ctx, merchantID)
	switch {
	case err == nil:
		if shopName != "" {
			existing.ShopName = shopName
		}
		if accessToken != "" {
			existing.AccessToken = accessToken
		}
		if apiVersion != "" {
			existing.APIVersion = apiVersion
		}
		if err := s.credentialRepo.Update(ctx, &existing); err != nil {
			return CredentialDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating credentials")
		}
		return toDTO(existing), nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		if shopName == "" {
			return CredentialDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
		}
		if accessToken == "" {
			return CredentialDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "access token is required")
		}
		if apiVersion == "" {
			apiVersion = s.defaultVersion
		}
		record := models.CatalogCredential{
			MerchantID:  merchantID,
			ShopName:    shopName,
			AccessToken: accessToken,
			APIVersion:  apiVersion,
		}
		if err := s.credentialRepo.Create(ctx, &record); err != nil {
			// concurrent create for the same merchant loses the race
			if db.IsUniqueViolation(err, "catalog_credentials_merchant_key") {
				return CredentialDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "credentials already configured")
			}
			return CredentialDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing credentials")
		}
		return toDTO(record), nil

	default:
		return CredentialDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading credentials")
	}
}

// GetCredentials returns the masked connection details for the merchant.
func (s *service) GetCredentials(ctx context.Context, merchantID uuid.UUID) (CredentialDTO, error) {
	record, err := s.load(ctx, merchantID)
	if err != nil {
		return CredentialDTO{}, err
	}
	return toDTO(record), nil
}

// RemoveCredentials disconnects the merchant's shop.
func (s *service) RemoveCredentials(ctx context.Context, merchantID uuid.UUID) error {
	if merchantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}
	if err := s.credentialRepo.Delete(ctx, merchantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing credentials")
	}
	return nil
}

// Resolve produces the fetch credentials used by the catalog client. A merchant
// without a stored connection yields a precondition error.
func (s *service) Resolve(ctx context.Context, merchantID uuid.UUID) (shopify.Credentials, error) {
	record, err := s.load(ctx, merchantID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return shopify.Credentials{}, pkgerrors.New(pkgerrors.CodePrecondition, "catalog access is not provisioned")
		}
		return shopify.Credentials{}, err
	}
	version := record.APIVersion
	if strings.TrimSpace(version) == "" {
		version = s.defaultVersion
	}
	return shopify.Credentials{
		ShopName:    record.ShopName,
		AccessToken: record.AccessToken,
		APIVersion:  version,
	}, nil
}

func (s *service) load(ctx context.Context, merchantID uuid.UUID) (models.CatalogCredential, error) {
	if merchantID == uuid.Nil {
		return models.CatalogCredential{}, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}
	record, err := s.credentialRepo.FindByMerchant(ctx, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CatalogCredential{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "credentials not found")
		}
		return models.CatalogCredential{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading credentials")
	}
	return record, nil
}

func toDTO(record models.CatalogCredential) CredentialDTO {
	return CredentialDTO{
		ShopName:    record.ShopName,
		APIVersion:  record.APIVersion,
		TokenMasked: maskToken(record.AccessToken),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
