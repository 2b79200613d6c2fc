package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medcourier/tracking/internal/core/domain"
)

const collectionLocationReports = "location_reports"

// LocationRepository is the append-only point store. The unique
// (shipment_id, seq) index turns every insert into a conditional write: two
// writers that validated against the same latest report cannot both land.
type LocationRepository struct {
	col *mongo.Collection
	log zerolog.Logger
}

func NewLocationRepository(db *mongo.Database, log zerolog.Logger) *LocationRepository {
	return &LocationRepository{col: db.Collection(collectionLocationReports), log: log}
}

// latestScanLimit bounds how far Latest looks past undecodable documents.
const latestScanLimit = 20

// Latest returns the report with the highest sequence, or nil. Documents
// that do not decode are skipped as in History.
func (r *LocationRepository) Latest(ctx context.Context, shipmentID string) (*domain.LocationReport, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: -1}}).SetLimit(latestScanLimit)
	cur, err := r.col.Find(ctx, bson.M{"shipment_id": shipmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find latest location report: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bson.Raw
	for cur.Next(ctx) {
		docs = append(docs, append(bson.Raw(nil), cur.Current...))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate latest location reports: %w", err)
	}

	rep, skipped, err := pickLatest(docs)
	if skipped > 0 {
		r.log.Warn().
			Str("shipment_id", shipmentID).
			Int("skipped", skipped).
			Msg("undecodable latest location reports skipped")
	}
	return rep, err
}

// pickLatest returns the first decodable report in docs, which are sorted by
// descending seq. A fallback report carries the newest document's seq and,
// when later, its timestamp so the next append still extends the series.
func pickLatest(docs []bson.Raw) (*domain.LocationReport, int, error) {
	if len(docs) == 0 {
		return nil, 0, nil
	}

	var head struct {
		Seq int64 `bson:"seq"`
	}
	if err := bson.Unmarshal(docs[0], &head); err != nil {
		return nil, 0, fmt.Errorf("decode latest seq: %w", err)
	}
	var headTime struct {
		Timestamp time.Time `bson:"timestamp"`
	}
	headTimeErr := bson.Unmarshal(docs[0], &headTime)

	for i, doc := range docs {
		var rep domain.LocationReport
		if err := bson.Unmarshal(doc, &rep); err != nil || !rep.Point().Valid() {
			continue
		}
		rep.Seq = head.Seq
		if headTimeErr == nil && headTime.Timestamp.After(rep.Timestamp) {
			rep.Timestamp = headTime.Timestamp
		}
		return &rep, i, nil
	}
	return nil, len(docs), fmt.Errorf("decode latest location report: none of %d documents decode", len(docs))
}

// Append inserts a report. The caller derives rep.Seq from the latest report
// it validated against and never stamps a time before that report's, so a
// duplicate sequence is the only way an append can go out of order.
func (r *LocationRepository) Append(ctx context.Context, rep *domain.LocationReport) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if rep.Seq < 1 {
		return domain.ErrOutOfOrderReport
	}

	doc := *rep
	doc.Timestamp = rep.Timestamp.UTC()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrOutOfOrderReport
		}
		return fmt.Errorf("insert location report: %w", err)
	}
	return nil
}

// History returns the accepted reports in ascending order. Documents that do
// not decode are skipped one by one.
func (r *LocationRepository) History(ctx context.Context, shipmentID string) ([]domain.LocationReport, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"shipment_id": shipmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find location reports: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.LocationReport, 0)
	skipped := 0
	for cur.Next(ctx) {
		var rep domain.LocationReport
		if err := cur.Decode(&rep); err != nil {
			skipped++
			r.log.Debug().Err(err).Str("shipment_id", shipmentID).Msg("undecodable location report skipped")
			continue
		}
		out = append(out, rep)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate location reports: %w", err)
	}
	if skipped > 0 {
		r.log.Warn().Str("shipment_id", shipmentID).Int("skipped", skipped).Msg("location history is incomplete")
	}
	return out, nil
}

func (r *LocationRepository) Count(ctx context.Context, shipmentID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"shipment_id": shipmentID})
}

// EnsureIndexes creates the ordering guard and the history index.
func (r *LocationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shipment_id", Value: 1}, {Key: "seq", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("shipment_seq_unique"),
		},
		{Keys: bson.D{{Key: "shipment_id", Value: 1}, {Key: "timestamp", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
