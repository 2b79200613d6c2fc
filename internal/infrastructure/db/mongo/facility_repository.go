package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medcourier/tracking/internal/core/domain"
)

const collectionFacilities = "facilities"

type FacilityRepository struct {
	col *mongo.Collection
	log zerolog.Logger
}

func NewFacilityRepository(db *mongo.Database, log zerolog.Logger) *FacilityRepository {
	return &FacilityRepository{col: db.Collection(collectionFacilities), log: log}
}

// FindByIDs loads the facilities that exist among ids.
func (r *FacilityRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Facility, error) {
	out := make(map[string]*domain.Facility, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find facilities: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var f domain.Facility
		if err := cur.Decode(&f); err != nil {
			r.log.Warn().Err(err).Msg("undecodable facility skipped")
			continue
		}
		out[f.ID] = &f
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate facilities: %w", err)
	}
	return out, nil
}

// SaveCoordinates caches geocoded coordinates on the facility.
func (r *FacilityRepository) SaveCoordinates(ctx context.Context, id string, c domain.Coordinates, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"coordinates": c,
		"geocoded_at": at.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update facility coordinates: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrFacilityNotFound
	}
	return nil
}
