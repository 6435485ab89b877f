package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"toyland/internal/models"
	"toyland/internal/repositories"
	"toyland/pkg/rabbitmq"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrBadIdentifier is returned when a toy id is not a valid ObjectID.
var ErrBadIdentifier = errors.New("invalid toy id")

// EventPublisher publishes toy lifecycle events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event rabbitmq.Event) error
}

// ToyService handles the toy listing operations. Each operation issues a single
// store call; successful writes are announced through the optional publisher.
type ToyService struct {
	repo      repositories.ToyRepository
	publisher EventPublisher
}

// NewToyService creates a new ToyService. publisher may be nil.
func NewToyService(repo repositories.ToyRepository, publisher EventPublisher) *ToyService {
	return &ToyService{
		repo:      repo,
		publisher: publisher,
	}
}

// ListAll retrieves every toy.
func (s *ToyService) ListAll(ctx context.Context) ([]models.Toy, error) {
	return nonNil(s.repo.FindAll(ctx))
}

// ListBySeller retrieves the toys whose sellerEmail equals email.
func (s *ToyService) ListBySeller(ctx context.Context, email string) ([]models.Toy, error) {
	return nonNil(s.repo.FindBySellerEmail(ctx, email))
}

// GetByID retrieves a single toy; it returns nil without error when none exists.
func (s *ToyService) GetByID(ctx context.Context, id string) (*models.Toy, error) {
	oid, err := ParseToyID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, oid)
}

// ListByCategory retrieves the toys in category.
func (s *ToyService) ListByCategory(ctx context.Context, category string) ([]models.Toy, error) {
	return nonNil(s.repo.FindByCategory(ctx, category))
}

// SearchByName retrieves the toys whose name contains name literally.
func (s *ToyService) SearchByName(ctx context.Context, name string) ([]models.Toy, error) {
	return nonNil(s.repo.SearchByName(ctx, name))
}

// Create stores toy under a store-assigned id. Any id supplied by the caller is discarded.
func (s *ToyService) Create(ctx context.Context, toy *models.Toy) (*models.InsertResult, error) {
	toy.ID = primitive.NilObjectID
	res, err := s.repo.Insert(ctx, toy)
	if err != nil {
		return nil, err
	}
	if res.Acknowledged {
		s.publish(ctx, rabbitmq.EventToyCreated, res.InsertedID)
	}
	return res, nil
}

// Update overwrites the listing fields of the toy with the given id.
func (s *ToyService) Update(ctx context.Context, id string, toy *models.Toy) (*models.UpdateResult, error) {
	oid, err := ParseToyID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.Update(ctx, oid, toy)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount > 0 {
		s.publish(ctx, rabbitmq.EventToyUpdated, oid)
	}
	return res, nil
}

// Delete removes the toy with the given id.
func (s *ToyService) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	oid, err := ParseToyID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return nil, err
	}
	if res.DeletedCount > 0 {
		s.publish(ctx, rabbitmq.EventToyDeleted, oid)
	}
	return res, nil
}

// Ping reports whether the store is reachable.
func (s *ToyService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// ParseToyID converts a hex path parameter into an ObjectID.
func ParseToyID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrBadIdentifier, id)
	}
	return oid, nil
}

// publish logs publisher failures instead of returning them.
func (s *ToyService) publish(ctx context.Context, eventType string, id primitive.ObjectID) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.Event{
		Type:       eventType,
		ToyID:      id.Hex(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		slog.Warn("failed to publish toy event", "type", eventType, "toy_id", event.ToyID, "error", err)
	}
}

func nonNil(toys []models.Toy, err error) ([]models.Toy, error) {
	if err != nil {
		return nil, err
	}
	if toys == nil {
		toys = []models.Toy{}
	}
	return toys, nil
}
