package sim

import (
	"testing"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeIsDeterministic(t *testing.T) {
	a, err := Initialize(10, 42)
	require.NoError(t, err)
	b, err := Initialize(10, 42)
	require.NoError(t, err)

	assert.Equal(t, a.BinIDs(), b.BinIDs())
	for _, id := range a.BinIDs() {
		ba, err := a.Bin(id)
		require.NoError(t, err)
		bb, err := b.Bin(id)
		require.NoError(t, err)
		assert.Equal(t, ba, bb)
	}

	c, err := Initialize(10, 43)
	require.NoError(t, err)
	first, _ := a.Bin("BIN001")
	other, _ := c.Bin("BIN001")
	assert.NotEqual(t, first.Location, other.Location)
}

func TestInitializeIDsAndTrucks(t *testing.T) {
	r, err := Initialize(11, 1)
	require.NoError(t, err)

	ids := r.BinIDs()
	require.Len(t, ids, 11)
	assert.Equal(t, "BIN001", ids[0])
	assert.Equal(t, "BIN011", ids[10])
	assert.Equal(t, []string{"TRUCK01", "TRUCK02", "TRUCK03"}, r.TruckIDs())

	for _, b := range r.Bins() {
		assert.GreaterOrEqual(t, b.FillPercent, 10.0)
		assert.Less(t, b.FillPercent, 60.0)
		assert.Contains(t, binCapacities, b.CapacityLiters)
		assert.LessOrEqual(t, b.Location.DistanceTo(DefaultParams().Center), DefaultParams().RadiusMeters*1.01)
	}
	for _, tr := range r.Trucks() {
		assert.Equal(t, domain.TruckIdle, tr.Status)
		assert.Equal(t, domain.DefaultTruckCapacity, tr.Capacity)
	}
}

func TestInitializeOptions(t *testing.T) {
	center := domain.Coordinates{Lon: 10, Lat: 50}
	r, err := Initialize(3, 5,
		WithTruckCount(1),
		WithTruckCapacity(2),
		WithArea(center, 0),
		WithLandmarks([]ports.Landmark{{Area: "Old Town", Location: center}}),
	)
	require.NoError(t, err)

	require.Len(t, r.Trucks(), 1)
	assert.Equal(t, 2, r.Trucks()[0].Capacity)
	for _, b := range r.Bins() {
		assert.Equal(t, "Old Town", b.Area)
		assert.InDelta(t, center.Lat, b.Location.Lat, 1e-9)
	}
}

func TestInitializeRejectsBadInput(t *testing.T) {
	_, err := Initialize(0, 42)
	assert.ErrorIs(t, err, domain.ErrInvalidCount)

	_, err = Initialize(5, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidSeed)

	_, err = Initialize(5, 1, WithTruckCount(0))
	assert.ErrorIs(t, err, domain.ErrInvalidCount)
}

func TestRegistryLookups(t *testing.T) {
	r, err := Initialize(3, 42)
	require.NoError(t, err)

	_, err = r.Bin("BIN999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.Truck("TRUCK99")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	b, err := r.Bin("BIN002")
	require.NoError(t, err)
	assert.Equal(t, "BIN002", b.ID)
}

func TestRegistryCloneIsIndependent(t *testing.T) {
	r, err := Initialize(2, 42)
	require.NoError(t, err)

	c := r.clone()
	cb, _ := c.Bin("BIN001")
	cb.FillPercent = 99
	ct, _ := c.Truck("TRUCK01")
	ct.Status = domain.TruckEnRoute

	b, _ := r.Bin("BIN001")
	tr, _ := r.Truck("TRUCK01")
	assert.NotEqual(t, 99.0, b.FillPercent)
	assert.Equal(t, domain.TruckIdle, tr.Status)
}
