package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appconfig "github.com/GTDGit/catalog_api/internal/config"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	dsn := DSN(&appconfig.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "shop user",
		Password: "p@ss:word",
		Name:     "catalog",
		SSLMode:  "disable",
	})

	assert.Equal(t, "postgres://shop+user:p%40ss%3Aword@db:5432/catalog?sslmode=disable", dsn)
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: 500 * time.Millisecond},
		{attempt: 2, want: time.Second},
		{attempt: 4, want: 4 * time.Second},
		{attempt: 5, want: 5 * time.Second},
		{attempt: 9, want: 5 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, backoff(tt.attempt, 500*time.Millisecond), "attempt %d", tt.attempt)
	}
}

func TestConnect_NilConfig(t *testing.T) {
	db, err := Connect(nil)
	assert.Nil(t, db)
	assert.EqualError(t, err, "nil database config")
}
