package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the prefixed tables and indexes if they do not exist.
// The unique index on (document_id, version_number) is what turns a racing
// snapshot insert into a conflict instead of a silent overwrite.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			name text NOT NULL,
			email text NOT NULL UNIQUE,
			password_digest text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`, tables.Users),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			title text NOT NULL,
			content jsonb NOT NULL DEFAULT '{"ops":[]}',
			created_by uuid NOT NULL REFERENCES %s(id),
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`, tables.Documents, tables.Users),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			document_id uuid NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			content jsonb NOT NULL,
			version_number integer NOT NULL,
			created_by uuid NOT NULL REFERENCES %s(id),
			change_description text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT now(),
			UNIQUE (document_id, version_number)
		)`, tables.DocumentVersions, tables.Documents, tables.Users),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id uuid NOT NULL REFERENCES %s(id),
			document_id uuid NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			access_type text NOT NULL CHECK (access_type IN ('viewer', 'editor')),
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`, tables.Permissions, tables.Users, tables.Documents),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			document_id uuid NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			user_id uuid NOT NULL REFERENCES %s(id),
			permission text NOT NULL CHECK (permission IN ('viewer', 'editor')),
			document_title text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT now()
		)`, tables.Requests, tables.Documents, tables.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_user_doc ON %s (user_id, document_id)`,
			tables.Permissions, tables.Permissions),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_user ON %s (user_id)`,
			tables.Requests, tables.Requests),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
