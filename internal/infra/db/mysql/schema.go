package mysql

import (
	"context"
	"database/sql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS legal_cases (
  id VARCHAR(36) NOT NULL PRIMARY KEY,
  owner VARCHAR(64) NOT NULL,
  name VARCHAR(255) NOT NULL,
  created_at DATETIME(6) NOT NULL,
  KEY idx_legal_cases_owner (owner, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
	`CREATE TABLE IF NOT EXISTS legal_case_stages (
  id VARCHAR(36) NOT NULL PRIMARY KEY,
  case_id VARCHAR(36) NOT NULL,
  stage_index INT NOT NULL,
  stage VARCHAR(255) NOT NULL,
  input_text LONGTEXT NOT NULL,
  output_text LONGTEXT NOT NULL,
  status VARCHAR(16) NOT NULL,
  created_at DATETIME(6) NOT NULL,
  KEY idx_legal_case_stages_case (case_id, created_at),
  CONSTRAINT fk_legal_case_stages_case FOREIGN KEY (case_id) REFERENCES legal_cases (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
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
