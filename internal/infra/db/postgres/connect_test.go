package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsDSN(t *testing.T) {
	dsn := Options{Host: "db", Port: 5432, User: "legal", Password: "p w'd", Name: "cases"}.DSN()
	assert.Equal(t, `host=db port=5432 user=legal password='p w\'d' dbname=cases sslmode=disable`, dsn)

	dsn = Options{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "require"}.DSN()
	assert.Contains(t, dsn, "sslmode=require")
}
