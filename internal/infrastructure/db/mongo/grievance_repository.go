package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trinetra110/civix/internal/core/domain"
	"github.com/trinetra110/civix/internal/core/ports"
)

const collectionGrievances = "grievances"

type GrievanceRepository struct {
	col *mongo.Collection
}

func NewGrievanceRepository(db *mongo.Database) *GrievanceRepository {
	return &GrievanceRepository{col: db.Collection(collectionGrievances)}
}

// Create inserts a new grievance document.
func (r *GrievanceRepository) Create(ctx context.Context, g *domain.Grievance) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, g)
	return err
}

// FindByID retrieves a grievance by its identifier.
func (r *GrievanceRepository) FindByID(ctx context.Context, id string) (*domain.Grievance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var g domain.Grievance
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGrievanceNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns grievances matching filter in backend-default (natural) order.
func (r *GrievanceRepository) List(ctx context.Context, filter ports.ListGrievancesFilter) ([]*domain.Grievance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}

	cursor, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var grievances []*domain.Grievance
	if err := cursor.All(ctx, &grievances); err != nil {
		return nil, err
	}
	return grievances, nil
}

// UpdateStatus partially updates the status, last_updated timestamp and
// version counter. Title, description, owner and file URLs are deliberately
// outside the update document: admin writes are limited to the lifecycle
// fields.
func (r *GrievanceRepository) UpdateStatus(ctx context.Context, id string, status domain.GrievanceStatus, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":       string(status),
			"last_updated": updatedAt.UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrGrievanceNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing owner-scoped listing and the
// dashboard status partition.
func (r *GrievanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
