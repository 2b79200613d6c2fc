package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/medcourier/tracking/internal/core/domain"
)

// Fixtures seeds the in-memory registry for local runs.
type Fixtures struct {
	Shipments  []domain.Shipment `json:"shipments"`
	Facilities []domain.Facility `json:"facilities"`
}

// LoadFixtures decodes fixtures from r and stores them.
func LoadFixtures(r io.Reader, shipments *ShipmentRepository, facilities *FacilityRepository) (Fixtures, error) {
	var fx Fixtures
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	for i := range fx.Shipments {
		if fx.Shipments[i].ID == "" {
			return Fixtures{}, fmt.Errorf("fixtures: shipment %d has no id", i)
		}
		shipments.Put(&fx.Shipments[i])
	}
	for i := range fx.Facilities {
		if fx.Facilities[i].ID == "" {
			return Fixtures{}, fmt.Errorf("fixtures: facility %d has no id", i)
		}
		facilities.Put(&fx.Facilities[i])
	}
	return fx, nil
}

// LoadFixturesFile is LoadFixtures over the file at path.
func LoadFixturesFile(path string, shipments *ShipmentRepository, facilities *FacilityRepository) (Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixtures{}, err
	}
	defer f.Close()
	return LoadFixtures(f, shipments, facilities)
}
