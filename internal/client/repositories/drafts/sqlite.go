package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resumeforge/resumeforge/internal/client/models"
	"github.com/resumeforge/resumeforge/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, resumeID int64) (*models.Draft, error) {
	var (
		d       models.Draft
		content []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, resume_id, name, content, updated_at FROM drafts WHERE resume_id = ?`,
		resumeID,
	).Scan(&d.Id, &d.ResumeID, &d.Name, &content, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft[%d]: %w", resumeID, err)
	}
	if err := json.Unmarshal(content, &d.Content); err != nil {
		return nil, fmt.Errorf("failed to decode draft[%d] content: %w", resumeID, err)
	}
	return &d, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, draft *models.Draft) error {
	if draft.Id == "" {
		draft.Id = uuid.NewString()
	}
	if draft.UpdatedAt.IsZero() {
		draft.UpdatedAt = time.Now().UTC()
	}
	content, err := json.Marshal(draft.Content)
	if err != nil {
		return fmt.Errorf("failed to encode draft[%d] content: %w", draft.ResumeID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO drafts (id, resume_id, name, content, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(resume_id) DO UPDATE SET
			name = excluded.name,
			content = excluded.content,
			updated_at = excluded.updated_at
	`, draft.Id, draft.ResumeID, draft.Name, content, draft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save draft[%d]: %w", draft.ResumeID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, resumeID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE resume_id = ?`, resumeID)
	if err != nil {
		return fmt.Errorf("failed to delete draft[%d]: %w", resumeID, err)
	}
	return nil
}

// Rekey moves the draft stored under oldID to newID, replacing whatever
// draft newID held before. Both steps run in one transaction, so a crash
// cannot leave the draft duplicated under both keys or lost under neither.
// Rekeying a missing draft is a no-op.
func (r *SQLiteRepository) Rekey(ctx context.Context, oldID, newID int64) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM drafts WHERE resume_id = ?`, newID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE drafts SET resume_id = ?, updated_at = ? WHERE resume_id = ?`,
			newID, time.Now().UTC(), oldID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to rekey draft[%d->%d]: %w", oldID, newID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Draft, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, resume_id, name, content, updated_at FROM drafts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var result []*models.Draft
	for rows.Next() {
		var (
			d       models.Draft
			content []byte
		)
		if err := rows.Scan(&d.Id, &d.ResumeID, &d.Name, &content, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		if err := json.Unmarshal(content, &d.Content); err != nil {
			return nil, fmt.Errorf("failed to decode draft[%d] content: %w", d.ResumeID, err)
		}
		result = append(result, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draft rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts`)
	if err != nil {
		return fmt.Errorf("failed to clear drafts: %w", err)
	}
	return nil
}
