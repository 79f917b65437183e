package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// newMockPostgres creates a PostgresProvider backed by pgxmock for unit testing.
func newMockPostgres(t *testing.T) (*PostgresProvider, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	p := &PostgresProvider{pool: mock}
	return p, mock
}

// fixtureProvider is a minimal in-memory Provider for seeding tests.
type fixtureProvider struct {
	areas        []model.Area
	pincodes     []model.Pincode
	events       []model.Event
	pois         []model.POI
	alternatives []model.Alternative
}

func (f *fixtureProvider) Areas(ctx context.Context) ([]model.Area, error) { return f.areas, nil }
func (f *fixtureProvider) Pincodes(ctx context.Context) ([]model.Pincode, error) {
	return f.pincodes, nil
}
func (f *fixtureProvider) Events(ctx context.Context) ([]model.Event, error) { return f.events, nil }
func (f *fixtureProvider) POIs(ctx context.Context) ([]model.POI, error)    { return f.pois, nil }
func (f *fixtureProvider) Alternatives(ctx context.Context) ([]model.Alternative, error) {
	return f.alternatives, nil
}
func (f *fixtureProvider) Status(ctx context.Context) (model.DatasetStatus, error) {
	return model.DatasetStatus{Source: "fixture"}, nil
}
func (f *fixtureProvider) Close() error { return nil }

func TestPostgres_Areas(t *testing.T) {
	p, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT key, name, lat, lng FROM areas ORDER BY position`).
		WillReturnRows(pgxmock.NewRows([]string{"key", "name", "lat", "lng"}).
			AddRow("connaught place", "Connaught Place", 28.6315, 77.2167).
			AddRow("saket", "Saket", 28.5244, 77.2167))

	areas, err := p.Areas(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "connaught place", areas[0].Key)
	assert.InDelta(t, 77.2167, areas[0].Location.Lng, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Events_ScanAndDecode(t *testing.T) {
	p, mock := newMockPostgres(t)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, name, category, description, lat, lng, sentiment, score, radius_m, sectors, impact_start`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "category", "description", "lat", "lng",
			"sentiment", "score", "radius_m", "sectors", "impact_start",
		}).AddRow(
			"ev-1", "Station Renovation", "construction", "",
			28.6330, 77.2194, "NEGATIVE", 0.7, 1500.0,
			[]byte(`["retail","restaurant"]`), start,
		))

	events, err := p.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.SentimentNegative, events[0].Impact.Sentiment)
	assert.Equal(t, []string{"retail", "restaurant"}, events[0].Impact.AffectedSectors)
	assert.Equal(t, "2025-03-01", events[0].Timelines.ImpactStart.String())
	assert.InDelta(t, -0.7, events[0].Impact.Signed(), 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Events_BadSectorsJSON(t *testing.T) {
	p, mock := newMockPostgres(t)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, name, category, description, lat, lng, sentiment, score, radius_m, sectors, impact_start`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "category", "description", "lat", "lng",
			"sentiment", "score", "radius_m", "sectors", "impact_start",
		}).AddRow(
			"ev-1", "Broken", "construction", "",
			28.6330, 77.2194, "NEGATIVE", 0.7, 1500.0,
			[]byte(`{`), start,
		))

	_, err := p.Events(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal sectors")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Status_CountsAllTables(t *testing.T) {
	p, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM areas`).
		WillReturnRows(pgxmock.NewRows([]string{"areas", "pincodes", "events", "pois", "alternatives"}).
			AddRow(14, 14, 10, 2, 8))

	status, err := p.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres", status.Source)
	assert.False(t, status.Degraded)
	assert.Equal(t, 14, status.Counts["areas"])
	assert.Equal(t, 10, status.Counts["events"])
	assert.Equal(t, 8, status.Counts["alternatives"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Migrate(t *testing.T) {
	p, mock := newMockPostgres(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS areas`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, p.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Seed_WritesAllDatasets(t *testing.T) {
	p, mock := newMockPostgres(t)

	src := &fixtureProvider{
		areas: []model.Area{
			{Key: "saket", Name: "Saket", Location: model.Coordinate{Lat: 28.5244, Lng: 77.2167}},
		},
		pincodes: []model.Pincode{
			{Code: "110017", AreaKey: "saket", Location: model.Coordinate{Lat: 28.5244, Lng: 77.2167}},
		},
		events: []model.Event{{
			ID:       "ev-1",
			Name:     "Mall Expansion",
			Category: "mall",
			Location: model.Coordinate{Lat: 28.5286, Lng: 77.2192},
			Impact: model.Impact{
				Sentiment:       model.SentimentPositive,
				Score:           0.5,
				RadiusMeters:    2000,
				AffectedSectors: []string{"retail"},
			},
			Timelines: model.Timelines{ImpactStart: model.NewDate(2026, time.January, 20)},
		}},
		pois: []model.POI{
			{Name: "Select Citywalk", Category: model.POIMall, Location: model.Coordinate{Lat: 28.5286, Lng: 77.2192}},
		},
		alternatives: []model.Alternative{
			{Area: "Dwarka", Location: model.Coordinate{Lat: 28.5921, Lng: 77.0469}, BaseRisk: 35},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE`).
		WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectExec(`INSERT INTO areas`).
		WithArgs(1, "saket", "Saket", 28.5244, 77.2167).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO pincodes`).
		WithArgs("110017", "saket", 28.5244, 77.2167).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO events`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO pois`).
		WithArgs("Select Citywalk", "mall", "", 28.5286, 77.2192).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO alternatives`).
		WithArgs(1, "Dwarka", 28.5921, 77.0469, 35.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, p.Seed(context.Background(), src))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Seed_BeginFails(t *testing.T) {
	p, mock := newMockPostgres(t)

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	err := p.Seed(context.Background(), NewStatic())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
	assert.NoError(t, mock.ExpectationsWereMet())
}
