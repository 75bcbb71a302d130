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

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, content, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.Title,
		doc.Content,
		doc.CreatedBy,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("creator %s: %w", doc.CreatedBy, domain.ErrNotFound)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document with its durable content
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, title, content, created_by, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.CreatedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// ListForUser returns documents the user created or holds a permission on
func (r *PostgresDocumentRepository) ListForUser(ctx context.Context, userID string) ([]models.DocumentSummary, error) {
	return r.listForUser(ctx, userID, 0)
}

// ListRecentForUser returns the most recently updated accessible documents
func (r *PostgresDocumentRepository) ListRecentForUser(ctx context.Context, userID string, limit int) ([]models.DocumentSummary, error) {
	return r.listForUser(ctx, userID, limit)
}

func (r *PostgresDocumentRepository) listForUser(ctx context.Context, userID string, limit int) ([]models.DocumentSummary, error) {
	query := fmt.Sprintf(`
		SELECT d.id, d.title, d.created_by, d.updated_at
		FROM %s d
		WHERE d.created_by = $1
		   OR d.id IN (SELECT document_id FROM %s WHERE user_id = $1)
		ORDER BY d.updated_at DESC
	`, r.tables.Documents, r.tables.Permissions)

	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.DocumentSummary{}
	for rows.Next() {
		var d models.DocumentSummary
		if err := rows.Scan(&d.ID, &d.Title, &d.CreatedBy, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

// UpdateTitle renames a document
func (r *PostgresDocumentRepository) UpdateTitle(ctx context.Context, id, title string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET title = $2, updated_at = now() WHERE id = $1
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, title)
	if err != nil {
		return fmt.Errorf("update document title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateContent overwrites the durable content blob
func (r *PostgresDocumentRepository) UpdateContent(ctx context.Context, id string, content models.Delta) error {
	query := fmt.Sprintf(`
		UPDATE %s SET content = $2, updated_at = now() WHERE id = $1
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, content)
	if err != nil {
		return fmt.Errorf("update document content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a document; versions, permissions, and requests cascade
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// CountActivity returns created/shared document counts for a user
func (r *PostgresDocumentRepository) CountActivity(ctx context.Context, userID string) (*models.UserActivity, error) {
	query := fmt.Sprintf(`
		SELECT
			(SELECT count(*) FROM %s WHERE created_by = $1),
			(SELECT count(DISTINCT document_id) FROM %s WHERE user_id = $1)
	`, r.tables.Documents, r.tables.Permissions)

	var activity models.UserActivity
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&activity.DocumentsCreated,
		&activity.DocumentsShared,
	)
	if err != nil {
		return nil, fmt.Errorf("count activity: %w", err)
	}

	return &activity, nil
}
