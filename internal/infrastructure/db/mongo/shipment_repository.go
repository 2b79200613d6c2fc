package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medcourier/tracking/internal/core/domain"
)

const collectionShipments = "shipments"

// ShipmentRepository reads the registry's shipments collection and writes the
// tracking fields only.
type ShipmentRepository struct {
	col *mongo.Collection
}

func NewShipmentRepository(db *mongo.Database) *ShipmentRepository {
	return &ShipmentRepository{col: db.Collection(collectionShipments)}
}

// FindByID retrieves a shipment by id.
func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Shipment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// EnableTracking sets the flag and keeps an existing start time via $ifNull,
// so concurrent enables agree on one start time.
func (r *ShipmentRepository) EnableTracking(ctx context.Context, id string, startedAt time.Time) (*domain.Shipment, error) {
	filter := mutableFilter(id)
	filter["assigned_driver_id"] = bson.M{"$nin": bson.A{nil, ""}}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "tracking_enabled", Value: true},
			{Key: "tracking_started_at", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$tracking_started_at", startedAt.UTC()}},
			}},
		}}},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

// DisableTracking clears the flag and the start time.
func (r *ShipmentRepository) DisableTracking(ctx context.Context, id string) (*domain.Shipment, error) {
	update := bson.M{"$set": bson.M{
		"tracking_enabled":    false,
		"tracking_started_at": nil,
	}}
	return r.findOneAndUpdate(ctx, mutableFilter(id), update)
}

func (r *ShipmentRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update any) (*domain.Shipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var s domain.Shipment
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// mutableFilter matches the shipment only while its status is non-terminal.
func mutableFilter(id string) bson.M {
	terminal := bson.A{}
	for _, st := range domain.TerminalStatuses() {
		terminal = append(terminal, string(st))
	}
	return bson.M{
		"_id":    id,
		"status": bson.M{"$nin": terminal},
	}
}

// EnsureIndexes creates the indexes used by tracking lookups.
func (r *ShipmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "assigned_driver_id", Value: 1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
