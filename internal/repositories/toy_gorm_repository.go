package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"toyland/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// toyRecord maps a toy onto a relational row. IDs keep the ObjectID hex form
// so every backend accepts the same identifiers.
type toyRecord struct {
	ID          string  `gorm:"primaryKey;column:id;type:varchar(24)"`
	ToyName     string  `gorm:"column:toy_name;index"`
	Category    string  `gorm:"column:category;index"`
	Quantity    int     `gorm:"column:quantity"`
	Price       float64 `gorm:"column:price"`
	Rating      float64 `gorm:"column:rating"`
	Description string  `gorm:"column:description"`
	Img         string  `gorm:"column:img"`
	SellerName  string  `gorm:"column:seller_name"`
	SellerEmail string  `gorm:"column:seller_email;index"`
}

// GORMToyRepository is a GORM implementation of ToyRepository for postgres and sqlite.
type GORMToyRepository struct {
	db    *gorm.DB
	table string
}

// NewGORMToyRepository creates a new instance of GORMToyRepository and migrates its table.
func NewGORMToyRepository(db *gorm.DB, table string) (*GORMToyRepository, error) {
	if err := db.Table(table).AutoMigrate(&toyRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s table: %w", table, err)
	}
	return &GORMToyRepository{
		db:    db,
		table: table,
	}, nil
}

// FindAll retrieves every toy.
func (r *GORMToyRepository) FindAll(ctx context.Context) ([]models.Toy, error) {
	return r.find(ctx, "find all toys", r.query(ctx))
}

// FindBySellerEmail retrieves the toys listed by the given seller.
func (r *GORMToyRepository) FindBySellerEmail(ctx context.Context, email string) ([]models.Toy, error) {
	return r.find(ctx, "find toys by seller", r.query(ctx).Where("seller_email = ?", email))
}

// FindByID retrieves a single toy by its ID.
func (r *GORMToyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Toy, error) {
	var records []toyRecord
	if err := r.query(ctx).Where("id = ?", id.Hex()).Limit(1).Find(&records).Error; err != nil {
		return nil, sqlError(fmt.Sprintf("find toy %s", id.Hex()), err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	toy := fromRecord(records[0])
	return &toy, nil
}

// FindByCategory retrieves the toys whose category matches exactly.
func (r *GORMToyRepository) FindByCategory(ctx context.Context, category string) ([]models.Toy, error) {
	return r.find(ctx, "find toys by category", r.query(ctx).Where("category = ?", category))
}

// SearchByName retrieves the toys whose name contains name.
func (r *GORMToyRepository) SearchByName(ctx context.Context, name string) ([]models.Toy, error) {
	return r.find(ctx, "search toys by name", r.query(ctx).Where(`toy_name LIKE ? ESCAPE '\'`, likePattern(name)))
}

// Insert stores a new toy under a freshly generated ObjectID.
func (r *GORMToyRepository) Insert(ctx context.Context, toy *models.Toy) (*models.InsertResult, error) {
	toy.ID = primitive.NewObjectID()
	record := toRecord(toy)
	if err := r.query(ctx).Create(&record).Error; err != nil {
		return nil, sqlError("insert toy", err)
	}
	return &models.InsertResult{Acknowledged: true, InsertedID: toy.ID}, nil
}

// Update overwrites the listing fields of the toy with the given ID.
// Zero values are written too, hence the map instead of a struct.
func (r *GORMToyRepository) Update(ctx context.Context, id primitive.ObjectID, toy *models.Toy) (*models.UpdateResult, error) {
	res := r.query(ctx).Where("id = ?", id.Hex()).Updates(map[string]any{
		"seller_name":  toy.SellerName,
		"seller_email": toy.SellerEmail,
		"toy_name":     toy.ToyName,
		"category":     toy.Category,
		"price":        toy.Price,
		"rating":       toy.Rating,
		"quantity":     toy.Quantity,
		"description":  toy.Description,
		"img":          toy.Img,
	})
	if res.Error != nil {
		return nil, sqlError(fmt.Sprintf("update toy %s", id.Hex()), res.Error)
	}
	// SQL drivers report matched rows; modified is not distinguishable here.
	return &models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.RowsAffected,
		ModifiedCount: res.RowsAffected,
	}, nil
}

// Delete removes the toy with the given ID.
func (r *GORMToyRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error) {
	res := r.query(ctx).Where("id = ?", id.Hex()).Delete(&toyRecord{})
	if res.Error != nil {
		return nil, sqlError(fmt.Sprintf("delete toy %s", id.Hex()), res.Error)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.RowsAffected}, nil
}

// Ping checks the underlying connection pool.
func (r *GORMToyRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return sqlError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping: %w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *GORMToyRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func (r *GORMToyRepository) find(ctx context.Context, op string, tx *gorm.DB) ([]models.Toy, error) {
	var records []toyRecord
	if err := tx.Order("id").Find(&records).Error; err != nil {
		return nil, sqlError(op, err)
	}
	toys := make([]models.Toy, 0, len(records))
	for _, rec := range records {
		toys = append(toys, fromRecord(rec))
	}
	return toys, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a LIKE pattern matching name as a literal substring.
func likePattern(name string) string {
	return "%" + likeEscaper.Replace(name) + "%"
}

func toRecord(toy *models.Toy) toyRecord {
	return toyRecord{
		ID:          toy.ID.Hex(),
		ToyName:     toy.ToyName,
		Category:    toy.Category,
		Quantity:    toy.Quantity,
		Price:       toy.Price,
		Rating:      toy.Rating,
		Description: toy.Description,
		Img:         toy.Img,
		SellerName:  toy.SellerName,
		SellerEmail: toy.SellerEmail,
	}
}

func fromRecord(rec toyRecord) models.Toy {
	id, _ := primitive.ObjectIDFromHex(rec.ID)
	return models.Toy{
		ID:          id,
		ToyName:     rec.ToyName,
		Category:    rec.Category,
		Quantity:    rec.Quantity,
		Price:       rec.Price,
		Rating:      rec.Rating,
		Description: rec.Description,
		Img:         rec.Img,
		SellerName:  rec.SellerName,
		SellerEmail: rec.SellerEmail,
	}
}

func sqlError(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return fmt.Errorf("failed to %s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
