package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/popupcity/portal_api/internal/config"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	cfg := &appconfig.DatabaseConfig{
		Host: "db", Port: "5432", User: "portal", Password: "p@ss/word", Name: "portal", SSLMode: "disable",
	}

	assert.Equal(t, "postgres://portal:p%40ss%2Fword@db:5432/portal?sslmode=disable", DSN(cfg))
}

func TestConnect_NilConfig(t *testing.T) {
	_, err := Connect(nil)
	require.Error(t, err)
}
