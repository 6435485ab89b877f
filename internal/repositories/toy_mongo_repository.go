package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"toyland/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// toyProjection limits single-toy reads to the listing fields.
var toyProjection = bson.D{
	{Key: "_id", Value: 1},
	{Key: "toyName", Value: 1},
	{Key: "category", Value: 1},
	{Key: "quantity", Value: 1},
	{Key: "price", Value: 1},
	{Key: "rating", Value: 1},
	{Key: "description", Value: 1},
	{Key: "img", Value: 1},
	{Key: "sellerName", Value: 1},
	{Key: "sellerEmail", Value: 1},
}

// MongoToyRepository is a MongoDB implementation of ToyRepository.
type MongoToyRepository struct {
	coll *mongo.Collection
}

// NewMongoToyRepository creates a new instance of MongoToyRepository.
// The caller owns the client behind coll and is responsible for disconnecting it.
func NewMongoToyRepository(coll *mongo.Collection) *MongoToyRepository {
	return &MongoToyRepository{
		coll: coll,
	}
}

// FindAll retrieves every toy in the collection.
func (r *MongoToyRepository) FindAll(ctx context.Context) ([]models.Toy, error) {
	return r.find(ctx, "find all toys", bson.D{})
}

// FindBySellerEmail retrieves the toys listed by the given seller.
func (r *MongoToyRepository) FindBySellerEmail(ctx context.Context, email string) ([]models.Toy, error) {
	return r.find(ctx, "find toys by seller", bson.D{{Key: "sellerEmail", Value: email}})
}

// FindByID retrieves a single toy by its ID.
func (r *MongoToyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Toy, error) {
	var toy models.Toy
	opts := options.FindOne().SetProjection(toyProjection)
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}, opts).Decode(&toy)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("find toy %s", id.Hex()), err)
	}
	return &toy, nil
}

// FindByCategory retrieves the toys whose category matches exactly.
func (r *MongoToyRepository) FindByCategory(ctx context.Context, category string) ([]models.Toy, error) {
	return r.find(ctx, "find toys by category", bson.D{{Key: "category", Value: category}})
}

// SearchByName retrieves the toys whose name contains name.
func (r *MongoToyRepository) SearchByName(ctx context.Context, name string) ([]models.Toy, error) {
	return r.find(ctx, "search toys by name", nameFilter(name))
}

// Insert stores a new toy. The store assigns the identifier.
func (r *MongoToyRepository) Insert(ctx context.Context, toy *models.Toy) (*models.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, toy)
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
		return &models.InsertResult{Acknowledged: false}, nil
	}
	if err != nil {
		return nil, storeError("insert toy", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	toy.ID = id
	return &models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// Update overwrites the listing fields of the toy with the given ID.
func (r *MongoToyRepository) Update(ctx context.Context, id primitive.ObjectID, toy *models.Toy) (*models.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, updateDocument(toy))
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
		return &models.UpdateResult{Acknowledged: false}, nil
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("update toy %s", id.Hex()), err)
	}
	result := &models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if upserted, ok := res.UpsertedID.(primitive.ObjectID); ok {
		result.UpsertedID = &upserted
	}
	return result, nil
}

// Delete removes the toy with the given ID.
func (r *MongoToyRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
		return &models.DeleteResult{Acknowledged: false}, nil
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("delete toy %s", id.Hex()), err)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// Ping checks that the primary is reachable.
func (r *MongoToyRepository) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return storeError("ping", err)
	}
	return nil
}

func (r *MongoToyRepository) find(ctx context.Context, op string, filter bson.D) ([]models.Toy, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, storeError(op, err)
	}
	toys := make([]models.Toy, 0)
	if err := cursor.All(ctx, &toys); err != nil {
		return nil, storeError(op, err)
	}
	return toys, nil
}

// nameFilter matches name literally; regex metacharacters in the input are escaped.
func nameFilter(name string) bson.D {
	return bson.D{{Key: "toyName", Value: primitive.Regex{Pattern: regexp.QuoteMeta(name)}}}
}

// updateDocument sets the nine listing fields. Fields outside that set are left untouched.
func updateDocument(toy *models.Toy) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "sellerName", Value: toy.SellerName},
		{Key: "sellerEmail", Value: toy.SellerEmail},
		{Key: "toyName", Value: toy.ToyName},
		{Key: "category", Value: toy.Category},
		{Key: "price", Value: toy.Price},
		{Key: "rating", Value: toy.Rating},
		{Key: "quantity", Value: toy.Quantity},
		{Key: "description", Value: toy.Description},
		{Key: "img", Value: toy.Img},
	}}}
}

func storeError(op string, err error) error {
	var selection topology.ServerSelectionError
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.As(err, &selection) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("failed to %s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
