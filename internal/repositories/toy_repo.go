package repositories

import (
	"context"
	"errors"

	"toyland/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrStoreUnavailable marks failures caused by the store being unreachable
// (network errors, timeouts, failed server selection).
var ErrStoreUnavailable = errors.New("store unavailable")

// ToyRepository defines the interface for toy data access.
// Every method maps to exactly one store call.
type ToyRepository interface {
	FindAll(ctx context.Context) ([]models.Toy, error)
	FindBySellerEmail(ctx context.Context, email string) ([]models.Toy, error)
	// FindByID returns nil and no error when no toy has the given id.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Toy, error)
	FindByCategory(ctx context.Context, category string) ([]models.Toy, error)
	// SearchByName matches name as a literal substring of toyName.
	SearchByName(ctx context.Context, name string) ([]models.Toy, error)
	Insert(ctx context.Context, toy *models.Toy) (*models.InsertResult, error)
	Update(ctx context.Context, id primitive.ObjectID, toy *models.Toy) (*models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error)
	Ping(ctx context.Context) error
}
