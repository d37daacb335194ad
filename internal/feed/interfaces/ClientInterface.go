package interfaces

import (
	"context"

	"sprintd/internal/models"
)

type ClientInterface interface {
	FetchAll(ctx context.Context) (*models.FetchResult, error)
}
