package db

import (
	"context"
	"strings"
	"testing"

	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMysqlDSN_EnablesParseTime(t *testing.T) {
	dsn, err := mysqlDSN("catalog:secret@tcp(localhost:3306)/catalog")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
}

func TestConnect_RejectsBadInput(t *testing.T) {
	_, err := Connect(context.Background(), "pgx", "")
	assert.Error(t, err)

	_, err = Connect(context.Background(), "sqlite", "file.db")
	assert.Error(t, err)
}

func TestSchema_PerDialect(t *testing.T) {
	for _, d := range []repo.Dialect{repo.Postgres, repo.MySQL} {
		stmts := Schema(d)
		require.Len(t, stmts, 2)
		assert.True(t, strings.Contains(stmts[0], "products"))
		assert.True(t, strings.Contains(stmts[1], "product_id"))
		assert.True(t, strings.Contains(stmts[1], "UNIQUE"))
	}
	assert.Contains(t, Schema(repo.Postgres)[0], "SERIAL")
	assert.Contains(t, Schema(repo.MySQL)[0], "AUTO_INCREMENT")
}
