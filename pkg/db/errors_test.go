package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolationPostgres(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "catalog_credentials_merchant_key",
		Message:        "duplicate key value violates unique constraint",
	}
	wrapped := fmt.Errorf("storing credentials: %w", pgErr)

	if !IsUniqueViolation(wrapped, "catalog_credentials_merchant_key") {
		t.Fatal("expected unique violation for matching constraint")
	}
	if !IsUniqueViolation(wrapped, "") {
		t.Fatal("expected unique violation without constraint filter")
	}
	if IsUniqueViolation(wrapped, "some_other_key") {
		t.Fatal("expected no match for a different constraint")
	}
}

func TestIsUniqueViolationPostgresOtherCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "catalog_credentials_merchant_key"}
	if IsUniqueViolation(pgErr, "catalog_credentials_merchant_key") {
		t.Fatal("foreign key violation must not register as unique violation")
	}
}

func TestIsUniqueViolationSQLiteFallback(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: catalog_credentials.merchant_id")
	if !IsUniqueViolation(err, "catalog_credentials_merchant_key") {
		t.Fatal("expected sqlite unique failure to register regardless of constraint name")
	}
}

func TestIsUniqueViolationNil(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error is not a violation")
	}
}
