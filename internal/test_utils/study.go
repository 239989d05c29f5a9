package test_utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertStudy stores a bare study row so employee and time log rows have a parent.
func InsertStudy(t *testing.T, ctx context.Context, db *pgxpool.Pool, timezone string) int {
	t.Helper()
	var id int
	err := db.QueryRow(ctx,
		`INSERT INTO study (uid, name, timezone) VALUES ($1, $2, $3) RETURNING id`,
		uuid.NewString(), "Test study", timezone,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
