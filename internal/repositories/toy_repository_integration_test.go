//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"toyland/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMongoContainer(t *testing.T) *mongo.Collection {
	ctx := context.Background()

	container, err := tcmongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database("toyland_test").Collection("toys")
}

func setupPostgresContainer(t *testing.T) *gorm.DB {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("toyland_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestMongoToyRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	coll := setupMongoContainer(t)
	testToyRepositoryContract(t, NewMongoToyRepository(coll))

	t.Run("fields outside the listing set", func(t *testing.T) {
		ctx := context.Background()
		repo := NewMongoToyRepository(coll)

		id := primitive.NewObjectID()
		_, err := coll.InsertOne(ctx, bson.D{
			{Key: "_id", Value: id},
			{Key: "toyName", Value: "Rocking Horse"},
			{Key: "category", Value: "wooden"},
			{Key: "quantity", Value: 1},
			{Key: "price", Value: 80.0},
			{Key: "rating", Value: 4.9},
			{Key: "description", Value: "Handmade"},
			{Key: "img", Value: "horse.png"},
			{Key: "sellerName", Value: "Cara"},
			{Key: "sellerEmail", Value: "cara@example.com"},
			{Key: "internalNote", Value: "restock in spring"},
		})
		require.NoError(t, err)

		// Single reads are projected onto the listing fields.
		var projected bson.M
		err = coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}},
			options.FindOne().SetProjection(toyProjection)).Decode(&projected)
		require.NoError(t, err)
		assert.NotContains(t, projected, "internalNote")
		assert.Equal(t, "Rocking Horse", projected["toyName"])

		toy, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, toy)
		assert.Equal(t, "cara@example.com", toy.SellerEmail)

		// Updates leave other stored fields alone.
		res, err := repo.Update(ctx, id, &models.Toy{
			ToyName: "Rocking Horse II", Category: "wooden", Quantity: 2, Price: 95,
			Rating: 5, Description: "Handmade oak", Img: "horse2.png",
			SellerName: "Cara", SellerEmail: "cara@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ModifiedCount)

		var stored bson.M
		require.NoError(t, coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&stored))
		assert.Equal(t, "restock in spring", stored["internalNote"])
		assert.Equal(t, "Rocking Horse II", stored["toyName"])
	})
}

func TestMongoToyRepository_UnreachableServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(500*time.Millisecond))
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	repo := NewMongoToyRepository(client.Database("toyland").Collection("toys"))
	_, err = repo.FindAll(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, repo.Ping(ctx), ErrStoreUnavailable)
}

func TestGORMToyRepository_PostgresIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo, err := NewGORMToyRepository(setupPostgresContainer(t), "toys")
	require.NoError(t, err)
	testToyRepositoryContract(t, repo)
}
