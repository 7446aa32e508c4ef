package drafts

import (
	"context"

	"github.com/resumeforge/resumeforge/internal/client/models"
)

type Repository interface {
	Get(ctx context.Context, resumeID int64) (*models.Draft, error)
	Save(ctx context.Context, draft *models.Draft) error
	Delete(ctx context.Context, resumeID int64) error
	Rekey(ctx context.Context, oldID, newID int64) error
	List(ctx context.Context) ([]*models.Draft, error)
	Clear(ctx context.Context) error
}
