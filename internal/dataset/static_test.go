package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Areas_OrderedTable(t *testing.T) {
	areas, err := NewStatic().Areas(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, areas)

	// Table order breaks substring-match ties, so the central business
	// district has to come first.
	assert.Equal(t, "connaught place", areas[0].Key)
	assert.Equal(t, "Connaught Place", areas[0].Name)
	assert.InDelta(t, 28.6315, areas[0].Location.Lat, 1e-9)
	assert.InDelta(t, 77.2167, areas[0].Location.Lng, 1e-9)

	keys := make(map[string]bool, len(areas))
	for _, a := range areas {
		assert.NotEmpty(t, a.Name, "area %s has no display name", a.Key)
		assert.False(t, keys[a.Key], "duplicate area key %s", a.Key)
		keys[a.Key] = true
	}
}

func TestStatic_Pincodes_ResolveToKnownAreas(t *testing.T) {
	p := NewStatic()
	ctx := context.Background()

	areas, err := p.Areas(ctx)
	require.NoError(t, err)
	areaKeys := make(map[string]bool, len(areas))
	for _, a := range areas {
		areaKeys[a.Key] = true
	}

	pincodes, err := p.Pincodes(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, pincodes)

	seen := make(map[string]bool, len(pincodes))
	for _, pc := range pincodes {
		assert.True(t, areaKeys[pc.AreaKey], "pincode %s points at unknown area %s", pc.Code, pc.AreaKey)
		assert.False(t, seen[pc.Code], "duplicate pincode %s", pc.Code)
		seen[pc.Code] = true
	}

	require.True(t, seen["110001"])
	for _, pc := range pincodes {
		if pc.Code == "110001" {
			assert.Equal(t, "connaught place", pc.AreaKey)
			assert.InDelta(t, 28.6315, pc.Location.Lat, 1e-9)
			assert.InDelta(t, 77.2167, pc.Location.Lng, 1e-9)
		}
	}
}

func TestStatic_Events_AllValid(t *testing.T) {
	events, err := NewStatic().Events(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, events)

	ids := make(map[string]bool, len(events))
	for _, e := range events {
		assert.NoError(t, e.Validate(), e.Name)
		assert.False(t, ids[e.ID], "duplicate event id %s", e.ID)
		ids[e.ID] = true
	}
}

func TestStatic_Alternatives_SortedByBaseRisk(t *testing.T) {
	alts, err := NewStatic().Alternatives(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, alts)

	for i := 1; i < len(alts); i++ {
		assert.LessOrEqual(t, alts[i-1].BaseRisk, alts[i].BaseRisk,
			"%s should not rank after %s", alts[i-1].Area, alts[i].Area)
	}
}

func TestStatic_Status(t *testing.T) {
	p := NewStatic()
	ctx := context.Background()

	status, err := p.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "static", status.Source)
	assert.False(t, status.Degraded)
	assert.Empty(t, status.Warnings)

	events, err := p.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(events), status.Counts["events"])
	assert.Equal(t, len(defaultAreas), status.Counts["areas"])
	assert.Equal(t, len(defaultPincodes), status.Counts["pincodes"])
}

func TestDefaultCentroid(t *testing.T) {
	assert.InDelta(t, 28.7041, DefaultCentroid.Lat, 1e-9)
	assert.InDelta(t, 77.1025, DefaultCentroid.Lng, 1e-9)
}
