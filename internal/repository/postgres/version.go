package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"coscribe/internal/domain"
	"coscribe/internal/domain/models"
	"coscribe/internal/domain/repositories"
)

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a snapshot. With a zero VersionNumber the store assigns
// max+1 for the document inside the insert itself; the unique index on
// (document_id, version_number) turns any remaining race into a conflict,
// never a silent overwrite.
func (r *PostgresVersionRepository) Create(ctx context.Context, v *models.DocumentVersion) error {
	executor := GetExecutor(ctx, r.pool)

	var err error
	if v.VersionNumber == 0 {
		query := fmt.Sprintf(`
			INSERT INTO %s (document_id, content, version_number, created_by, change_description)
			SELECT $1, $2, COALESCE(MAX(version_number), 0) + 1, $3, $4
			FROM %s WHERE document_id = $1
			RETURNING id, version_number, created_at
		`, r.tables.DocumentVersions, r.tables.DocumentVersions)
		err = executor.QueryRow(ctx, query,
			v.DocumentID, v.Content, v.CreatedBy, v.ChangeDescription,
		).Scan(&v.ID, &v.VersionNumber, &v.CreatedAt)
	} else {
		query := fmt.Sprintf(`
			INSERT INTO %s (document_id, content, version_number, created_by, change_description)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, r.tables.DocumentVersions)
		err = executor.QueryRow(ctx, query,
			v.DocumentID, v.Content, v.VersionNumber, v.CreatedBy, v.ChangeDescription,
		).Scan(&v.ID, &v.CreatedAt)
	}

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version %d already exists for document %s", v.VersionNumber, v.DocumentID),
				ResourceType: "version",
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", v.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create version: %w", err)
	}

	return nil
}

// GetByID retrieves a full snapshot
func (r *PostgresVersionRepository) GetByID(ctx context.Context, id string) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, content, version_number, created_by, change_description, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.DocumentVersions)

	var v models.DocumentVersion
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.DocumentID,
		&v.Content,
		&v.VersionNumber,
		&v.CreatedBy,
		&v.ChangeDescription,
		&v.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &v, nil
}

// ListByDocument returns version metadata, version_number ascending
func (r *PostgresVersionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.VersionSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, version_number, created_by, change_description, created_at
		FROM %s
		WHERE document_id = $1
		ORDER BY version_number ASC
	`, r.tables.DocumentVersions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	versions := []models.VersionSummary{}
	for rows.Next() {
		var v models.VersionSummary
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.VersionNumber, &v.CreatedBy, &v.ChangeDescription, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan version row: %w", err)
		}
		versions = append(versions, v)
	}

	return versions, rows.Err()
}

// Update replaces content and change description of a snapshot
func (r *PostgresVersionRepository) Update(ctx context.Context, v *models.DocumentVersion) error {
	query := fmt.Sprintf(`
		UPDATE %s SET content = $2, change_description = $3 WHERE id = $1
	`, r.tables.DocumentVersions)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, v.ID, v.Content, v.ChangeDescription)
	if err != nil {
		return fmt.Errorf("update version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("version %s: %w", v.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a snapshot
func (r *PostgresVersionRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.DocumentVersions)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
