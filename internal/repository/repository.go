package repository

import (
	"context"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

type RecordRepository interface {
	Add(ctx context.Context, r *models.Record) error
	GetByID(ctx context.Context, id string) (*models.Record, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListRecords(ctx context.Context) ([]models.Record, error)
	Count(ctx context.Context) (int, error)
}
