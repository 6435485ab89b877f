package repositories

import (
	"context"
	"strings"
	"sync"

	"toyland/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockToyRepository is an in-memory implementation of ToyRepository.
// Toys are returned in insertion order.
type MockToyRepository struct {
	toys  map[primitive.ObjectID]models.Toy
	order []primitive.ObjectID
	mu    sync.RWMutex
}

// NewMockToyRepository creates a new instance of MockToyRepository.
func NewMockToyRepository() *MockToyRepository {
	return &MockToyRepository{
		toys: make(map[primitive.ObjectID]models.Toy),
	}
}

// FindAll returns all toys.
func (r *MockToyRepository) FindAll(_ context.Context) ([]models.Toy, error) {
	return r.filter(func(models.Toy) bool { return true }), nil
}

// FindBySellerEmail returns the toys listed by email.
func (r *MockToyRepository) FindBySellerEmail(_ context.Context, email string) ([]models.Toy, error) {
	return r.filter(func(t models.Toy) bool { return t.SellerEmail == email }), nil
}

// FindByID returns a toy by its ID, or nil.
func (r *MockToyRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Toy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	toy, ok := r.toys[id]
	if !ok {
		return nil, nil
	}
	return &toy, nil
}

// FindByCategory returns the toys in category.
func (r *MockToyRepository) FindByCategory(_ context.Context, category string) ([]models.Toy, error) {
	return r.filter(func(t models.Toy) bool { return t.Category == category }), nil
}

// SearchByName returns the toys whose name contains name.
func (r *MockToyRepository) SearchByName(_ context.Context, name string) ([]models.Toy, error) {
	return r.filter(func(t models.Toy) bool { return strings.Contains(t.ToyName, name) }), nil
}

// Insert adds a new toy under a fresh ID.
func (r *MockToyRepository) Insert(_ context.Context, toy *models.Toy) (*models.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	toy.ID = primitive.NewObjectID()
	r.toys[toy.ID] = *toy
	r.order = append(r.order, toy.ID)
	return &models.InsertResult{Acknowledged: true, InsertedID: toy.ID}, nil
}

// Update replaces the listing fields of an existing toy.
func (r *MockToyRepository) Update(_ context.Context, id primitive.ObjectID, toy *models.Toy) (*models.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.toys[id]
	if !ok {
		return &models.UpdateResult{Acknowledged: true}, nil
	}
	updated := *toy
	updated.ID = id
	result := &models.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if updated != current {
		result.ModifiedCount = 1
	}
	r.toys[id] = updated
	return result, nil
}

// Delete removes a toy by its ID.
func (r *MockToyRepository) Delete(_ context.Context, id primitive.ObjectID) (*models.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.toys[id]; !ok {
		return &models.DeleteResult{Acknowledged: true}, nil
	}
	delete(r.toys, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// Ping always succeeds.
func (r *MockToyRepository) Ping(_ context.Context) error {
	return nil
}

func (r *MockToyRepository) filter(keep func(models.Toy) bool) []models.Toy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	toys := make([]models.Toy, 0, len(r.order))
	for _, id := range r.order {
		if t := r.toys[id]; keep(t) {
			toys = append(toys, t)
		}
	}
	return toys
}
