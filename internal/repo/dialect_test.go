package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("pgx")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = DialectFor("mysql")
	require.NoError(t, err)
	assert.Equal(t, MySQL, d)

	_, err = DialectFor("sqlite")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := `UPDATE products SET name = ?, price = ? WHERE id = ?`

	assert.Equal(t, `UPDATE products SET name = $1, price = $2 WHERE id = $3`, Postgres.Rebind(q))
	assert.Equal(t, q, MySQL.Rebind(q))
}

func TestNameContains(t *testing.T) {
	assert.Equal(t, "p.name ILIKE ?", Postgres.NameContains("p.name"))
	assert.Equal(t, "LOWER(p.name) LIKE LOWER(?)", MySQL.NameContains("p.name"))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%lap%", ContainsPattern("lap"))
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
}
