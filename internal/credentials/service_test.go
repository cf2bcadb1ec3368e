package credentials

import (
	"context"
	"testing"

	"github.com/bargainly/bargainly-backend/pkg/config"
	"github.com/bargainly/bargainly-backend/pkg/db/models"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCredentialsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CatalogCredential{}))
	return db
}

func newCredentialsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		CredentialRepo: NewRepository(db),
		Shopify:        config.ShopifyConfig{DefaultAPIVersion: "2024-01"},
	})
	require.NoError(t, err)
	return svc
}

func TestSetCredentialsCreatesConnection(t *testing.T) {
	db := setupCredentialsTestDB(t)
	svc := newCredentialsService(t, db)
	merchantID := uuid.New()

	dto, err := svc.SetCredentials(context.Background(), merchantID, SetCredentialsInput{
		ShopName:    "acme-supply",
		AccessToken: "shpat_0123456789abcdef",
	})
	require.NoError(t, err)

	assert.Equal(t, "acme-supply", dto.ShopName)
	assert.Equal(t, "2024-01", dto.APIVersion)
	assert.NotContains(t, dto.TokenMasked, "shpat_0123456789abc")
	assert.Contains(t, dto.TokenMasked, "cdef")
}

func TestSetCredentialsRequiresShopAndTokenOnCreate(t *testing.T) {
	db := setupCredentialsTestDB(t)
	svc := newCredentialsService(t, db)
	merchantID := uuid.New()

	_, err := svc.SetCredentials(context.Background(), merchantID, SetCredentialsInput{AccessToken: "tok"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.SetCredentials(context.Background(), merchantID, SetCredentialsInput{ShopName: "acme"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestSetCredentialsPartialUpdateKeepsStoredValues(t *testing.T) {
	db := setupCredentialsTestDB(t)
	svc := newCredentialsService(t, db)
	merchantID := uuid.New()

	_, err := svc.SetCredentials(context.Background(), merchantID, SetCredentialsInput{
		ShopName:    "acme-supply",
		AccessToken: "token-one",
		APIVersion:  "2023-10",
	})
	require.NoError(t, err)

	dto, err := svc.SetCredentials(context.Background(), merchantID, SetCredentialsInput{
		AccessToken: "token-two",
	})
	require.NoError(t, err)

	assert.Equal(t, "acme-supply", dto.ShopName)
	assert.Equal(t, "2023-10", dto.APIVersion)

	creds, err := svc.Resolve(context.Background(), merchantID)
	require.NoError(t, err)
	assert.Equal(t, "token-two", creds.AccessToken)
	assert.Equal(t, "acme-supply", creds.ShopName)
}

func TestGetCredentialsMissingMerchant(t *testing.T) {
	db := setupCredentialsTestDB(t)
	svc := newCredentialsService(t, db)

	_, err := svc.GetCredentials(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestResolveWithoutConnectionIsPrecondition(t *testing.T) {
	db := setupCredentialsTestDB(t)
	svc := newCredentialsService(t, db)

	_, err := svc.Resolve(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePrecondition))
}

func TestRemoveCredentialsDisconnects(t *testing.T) {
	db := setupCredentialsTestDB(t)
	svc := newCredentialsService(t, db)
	merchantID := uuid.New()

	_, err := svc.SetCredentials(context.Background(), merchantID, SetCredentialsInput{
		ShopName:    "acme-supply",
		AccessToken: "token-one",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCredentials(context.Background(), merchantID))

	_, err = svc.Resolve(context.Background(), merchantID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePrecondition))
}
