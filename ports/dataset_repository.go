package ports

import (
	"context"

	"bankinfer/domain/dataset"
)

// DatasetSource loads the dataset a session analyses. Implementations are
// read-only: Load may be called more than once and must not mutate the source.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
	// Describe names the source for logs and API responses
	Describe() string
}
