package service

import (
	"fmt"
	"time"

	"github.com/medcourier/tracking/internal/core/domain"
	"github.com/medcourier/tracking/internal/core/geo"
)

type verdict int

const (
	verdictMove verdict = iota
	verdictJitter
	verdictImplausible
)

// movement is the delta between the latest accepted report and a candidate.
type movement struct {
	verdict       verdict
	distanceMiles float64
	elapsed       time.Duration
	impliedMPH    float64
	reason        string
}

// movementInterval returns the interval the candidate moved over. Under the
// client policy, when both samples carry a device clock reading, that gap is
// used so buffered samples delivered together keep their real spacing.
// Otherwise it is the gap between the stored time and the receive time.
func (c IngestionConfig) movementInterval(prev *domain.LocationReport, recordedAt *time.Time, at time.Time) (from, to time.Time, err error) {
	if c.TimestampPolicy != TimestampClientReported || recordedAt == nil || prev.RecordedAt == nil {
		return prev.Timestamp, at, nil
	}
	from, to = prev.RecordedAt.UTC(), recordedAt.UTC()
	if to.Before(from) {
		return time.Time{}, time.Time{}, domain.Invalid(domain.ErrRecordedOutOfOrder)
	}
	return from, to, nil
}

// assessMovement runs the speed ceiling, the short-interval jump check and
// jitter suppression, in that order, against the previous accepted report.
func (c IngestionConfig) assessMovement(prev *domain.LocationReport, next domain.Coordinates, from, to time.Time) movement {
	m := movement{
		distanceMiles: geo.DistanceMiles(prev.Point(), next),
		elapsed:       to.Sub(from),
	}
	m.impliedMPH = m.distanceMiles / geo.ElapsedHours(from, to)

	switch {
	case m.impliedMPH > c.MaxSpeedMPH:
		m.verdict = verdictImplausible
		m.reason = fmt.Sprintf("implied speed %.1f mph exceeds %.0f mph", m.impliedMPH, c.MaxSpeedMPH)
	case m.elapsed < c.ShortInterval && m.distanceMiles > c.ShortIntervalMaxMiles:
		m.verdict = verdictImplausible
		m.reason = fmt.Sprintf("moved %.3f mi in %s", m.distanceMiles, m.elapsed)
	case m.distanceMiles < c.JitterMiles:
		m.verdict = verdictJitter
	default:
		m.verdict = verdictMove
	}
	return m
}
