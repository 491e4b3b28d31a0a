package postgres

import (
	"context"
	"database/sql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS legal_cases (
  id VARCHAR(36) PRIMARY KEY,
  owner VARCHAR(64) NOT NULL,
  name VARCHAR(255) NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_legal_cases_owner ON legal_cases (owner, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS legal_case_stages (
  id VARCHAR(36) PRIMARY KEY,
  case_id VARCHAR(36) NOT NULL REFERENCES legal_cases (id) ON DELETE CASCADE,
  stage_index INT NOT NULL,
  stage VARCHAR(255) NOT NULL,
  input_text TEXT NOT NULL,
  output_text TEXT NOT NULL,
  status VARCHAR(16) NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_legal_case_stages_case ON legal_case_stages (case_id, created_at);`,
}

// Migrate creates the case tables when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
