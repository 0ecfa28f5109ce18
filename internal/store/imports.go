package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ResolveLatestImportDBName returns the most recently imported database name
// for a city from public.latest_successful_imports. The importer writes each
// feed import into a fresh database and records it there; the caller is
// expected to be connected to the cluster's meta database.
func ResolveLatestImportDBName(ctx context.Context, meta *Postgres, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", fmt.Errorf("city is required")
	}
	q := `
SELECT db_name
FROM public.latest_successful_imports
WHERE db_name ILIKE '%' || $1 || '%'
ORDER BY imported_at DESC
LIMIT 1`
	var dbName sql.NullString
	if err := meta.db.QueryRowContext(ctx, q, city).Scan(&dbName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("no imported database for city like %q", city)
		}
		return "", err
	}
	if !dbName.Valid || dbName.String == "" {
		return "", fmt.Errorf("empty db_name for city like %q", city)
	}
	return dbName.String, nil
}
