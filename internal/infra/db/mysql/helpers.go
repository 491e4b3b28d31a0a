package mysql

import (
	"database/sql"
	"strings"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// requireAffected maps a zero-row write to ErrNotFound
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
