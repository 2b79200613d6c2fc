package mongo

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/medcourier/tracking/internal/core/domain"
)

var t0 = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func rawReport(t *testing.T, seq int64, lat float64, at time.Time) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(domain.LocationReport{
		ID:         "rep-" + strconv.FormatInt(seq, 10),
		ShipmentID: "shp-1",
		DriverID:   "drv-1",
		Seq:        seq,
		Latitude:   lat,
		Longitude:  -96.10,
		Timestamp:  at,
	})
	require.NoError(t, err)
	return raw
}

func rawDoc(t *testing.T, doc bson.M) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	return raw
}

func TestPickLatest(t *testing.T) {
	t.Run("no documents", func(t *testing.T) {
		rep, skipped, err := pickLatest(nil)
		require.NoError(t, err)
		assert.Nil(t, rep)
		assert.Zero(t, skipped)
	})

	t.Run("newest decodes", func(t *testing.T) {
		docs := []bson.Raw{
			rawReport(t, 3, 33.12, t0.Add(2*time.Minute)),
			rawReport(t, 2, 33.11, t0.Add(time.Minute)),
		}
		rep, skipped, err := pickLatest(docs)
		require.NoError(t, err)
		assert.Zero(t, skipped)
		assert.Equal(t, int64(3), rep.Seq)
		assert.Equal(t, 33.12, rep.Latitude)
		assert.True(t, rep.Timestamp.Equal(t0.Add(2*time.Minute)))
	})

	t.Run("falls back past a corrupt newest document", func(t *testing.T) {
		docs := []bson.Raw{
			rawDoc(t, bson.M{"_id": "bad", "shipment_id": "shp-1", "seq": int64(4), "latitude": "north", "timestamp": t0.Add(3 * time.Minute)}),
			rawReport(t, 3, 33.12, t0.Add(2*time.Minute)),
		}
		rep, skipped, err := pickLatest(docs)
		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
		assert.Equal(t, 33.12, rep.Latitude)
		// The next append must still be seq 5 and not precede the corrupt one.
		assert.Equal(t, int64(4), rep.Seq)
		assert.True(t, rep.Timestamp.Equal(t0.Add(3*time.Minute)))
	})

	t.Run("out of range point is skipped", func(t *testing.T) {
		docs := []bson.Raw{
			rawReport(t, 2, 123.0, t0.Add(time.Minute)),
			rawReport(t, 1, 33.10, t0),
		}
		rep, skipped, err := pickLatest(docs)
		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
		assert.Equal(t, 33.10, rep.Latitude)
		assert.Equal(t, int64(2), rep.Seq)
	})

	t.Run("unreadable seq", func(t *testing.T) {
		docs := []bson.Raw{
			rawDoc(t, bson.M{"_id": "bad", "shipment_id": "shp-1", "seq": "four"}),
			rawReport(t, 3, 33.12, t0),
		}
		_, _, err := pickLatest(docs)
		assert.Error(t, err)
	})

	t.Run("nothing decodes", func(t *testing.T) {
		docs := []bson.Raw{
			rawDoc(t, bson.M{"_id": "a", "seq": int64(2), "latitude": "x"}),
			rawDoc(t, bson.M{"_id": "b", "seq": int64(1), "latitude": "y"}),
		}
		rep, skipped, err := pickLatest(docs)
		assert.Error(t, err)
		assert.Nil(t, rep)
		assert.Equal(t, 2, skipped)
	})
}
