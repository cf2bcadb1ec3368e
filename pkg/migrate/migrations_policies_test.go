package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPoliciesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_bargaining_policies.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no bargaining policies migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS bargaining_policies",
		"CREATE UNIQUE INDEX IF NOT EXISTS bargaining_policies_merchant_variant_key",
		"CHECK (min_price >= 0)",
		"CHECK (behavior IN ('aggressive', 'moderate', 'flexible'))",
		"DROP TABLE IF EXISTS bargaining_policies",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
