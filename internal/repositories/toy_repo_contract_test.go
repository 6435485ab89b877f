package repositories

import (
	"context"
	"testing"

	"toyland/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func contractToys() []models.Toy {
	return []models.Toy{
		{ToyName: "Red Race Car", Category: "cars", Quantity: 4, Price: 19.99, Rating: 4.5, Description: "Fast", Img: "car.png", SellerName: "Alice", SellerEmail: "alice@example.com"},
		{ToyName: "Monster Truck", Category: "trucks", Quantity: 2, Price: 35, Rating: 4.8, Description: "Big", Img: "truck.png", SellerName: "Alice", SellerEmail: "alice@example.com"},
		{ToyName: "100% Plush_Bear", Category: "plush", Quantity: 7, Price: 12, Rating: 4.1, Description: "Soft", Img: "bear.png", SellerName: "Bob", SellerEmail: "bob@example.com"},
		{ToyName: "Car.Kit (v2)", Category: "cars", Quantity: 1, Price: 49.5, Rating: 3.5, Description: "Build", Img: "kit.png", SellerName: "Bob", SellerEmail: "bob@example.com"},
	}
}

func toyNames(toys []models.Toy) []string {
	names := make([]string, 0, len(toys))
	for _, t := range toys {
		names = append(names, t.ToyName)
	}
	return names
}

// testToyRepositoryContract exercises the behaviour every ToyRepository backend shares.
// repo must start empty.
func testToyRepositoryContract(t *testing.T, repo ToyRepository) {
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)

	ids := make(map[string]primitive.ObjectID)
	for _, toy := range contractToys() {
		toy := toy
		ack, err := repo.Insert(ctx, &toy)
		require.NoError(t, err)
		require.True(t, ack.Acknowledged)
		require.False(t, ack.InsertedID.IsZero())
		ids[toy.ToyName] = ack.InsertedID
	}

	t.Run("FindAll", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("FindByID", func(t *testing.T) {
		want := contractToys()[0]
		want.ID = ids[want.ToyName]

		got, err := repo.FindByID(ctx, want.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)

		missing, err := repo.FindByID(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("FindBySellerEmail", func(t *testing.T) {
		toys, err := repo.FindBySellerEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Red Race Car", "Monster Truck"}, toyNames(toys))

		toys, err = repo.FindBySellerEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.NotNil(t, toys)
		assert.Empty(t, toys)
	})

	t.Run("FindByCategory", func(t *testing.T) {
		toys, err := repo.FindByCategory(ctx, "cars")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Red Race Car", "Car.Kit (v2)"}, toyNames(toys))

		toys, err = repo.FindByCategory(ctx, "car")
		require.NoError(t, err)
		assert.Empty(t, toys)
	})

	t.Run("SearchByName", func(t *testing.T) {
		cases := map[string][]string{
			"Car":     {"Red Race Car", "Car.Kit (v2)"},
			"Truck":   {"Monster Truck"},
			"100%":    {"100% Plush_Bear"},
			"%":       {"100% Plush_Bear"},
			"_":       {"100% Plush_Bear"},
			".Kit":    {"Car.Kit (v2)"},
			"(v2)":    {"Car.Kit (v2)"},
			".*":      {},
			"Car_Kit": {},
			"Robot":   {},
		}
		for term, want := range cases {
			toys, err := repo.SearchByName(ctx, term)
			require.NoError(t, err, term)
			assert.ElementsMatch(t, want, toyNames(toys), term)
		}
	})

	t.Run("Update", func(t *testing.T) {
		id := ids["Monster Truck"]
		changes := models.Toy{
			ToyName: "Monster Truck XL", Category: "trucks", Quantity: 0, Price: 0, Rating: 5,
			Description: "", Img: "truck-xl.png", SellerName: "Alice", SellerEmail: "alice@example.com",
		}
		res, err := repo.Update(ctx, id, &changes)
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(1), res.ModifiedCount)
		assert.Nil(t, res.UpsertedID)

		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		changes.ID = id
		assert.Equal(t, changes, *got)

		res, err = repo.Update(ctx, primitive.NewObjectID(), &changes)
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.MatchedCount)
		assert.Equal(t, int64(0), res.UpsertedCount)
	})

	t.Run("Delete", func(t *testing.T) {
		id := ids["Red Race Car"]
		res, err := repo.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, &models.DeleteResult{Acknowledged: true, DeletedCount: 1}, res)

		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)

		res, err = repo.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.DeletedCount)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
