package dataset

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// Pool is the subset of pgxpool.Pool the provider uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresProvider serves the datasets from PostgreSQL using pgxpool.
type PostgresProvider struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the dataset reads.
var preparedStatements = map[string]string{
	"select_areas":        `SELECT key, name, lat, lng FROM areas ORDER BY position`,
	"select_pincodes":     `SELECT code, area_key, lat, lng FROM pincodes ORDER BY code`,
	"select_events":       `SELECT id, name, category, description, lat, lng, sentiment, score, radius_m, sectors, impact_start FROM events ORDER BY impact_start, id`,
	"select_pois":         `SELECT name, category, area, lat, lng FROM pois ORDER BY id`,
	"select_alternatives": `SELECT area, lat, lng, base_risk FROM alternatives ORDER BY position`,
}

// NewPostgres creates a PostgresProvider with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresProvider, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare the dataset reads on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresProvider{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS areas (
	position INTEGER PRIMARY KEY,
	key      TEXT NOT NULL UNIQUE,
	name     TEXT NOT NULL,
	lat      DOUBLE PRECISION NOT NULL,
	lng      DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS pincodes (
	code     TEXT PRIMARY KEY,
	area_key TEXT NOT NULL,
	lat      DOUBLE PRECISION NOT NULL,
	lng      DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	lat          DOUBLE PRECISION NOT NULL,
	lng          DOUBLE PRECISION NOT NULL,
	sentiment    TEXT NOT NULL,
	score        DOUBLE PRECISION NOT NULL,
	radius_m     DOUBLE PRECISION NOT NULL,
	sectors      JSONB NOT NULL,
	impact_start DATE NOT NULL
);

CREATE TABLE IF NOT EXISTS pois (
	id       BIGSERIAL PRIMARY KEY,
	name     TEXT NOT NULL,
	category TEXT NOT NULL,
	area     TEXT NOT NULL DEFAULT '',
	lat      DOUBLE PRECISION NOT NULL,
	lng      DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS alternatives (
	position  INTEGER PRIMARY KEY,
	area      TEXT NOT NULL UNIQUE,
	lat       DOUBLE PRECISION NOT NULL,
	lng       DOUBLE PRECISION NOT NULL,
	base_risk DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
CREATE INDEX IF NOT EXISTS idx_events_impact_start ON events(impact_start);
CREATE INDEX IF NOT EXISTS idx_pois_category ON pois(category);
`

// Migrate creates the dataset schema.
func (p *PostgresProvider) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Seed replaces every dataset table's contents with the datasets served by
// src. Used by the datasets migrate command.
func (p *PostgresProvider) Seed(ctx context.Context, src Provider) error {
	areas, err := src.Areas(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: seed: read areas")
	}
	pincodes, err := src.Pincodes(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: seed: read pincodes")
	}
	events, err := src.Events(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: seed: read events")
	}
	pois, err := src.POIs(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: seed: read pois")
	}
	alternatives, err := src.Alternatives(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: seed: read alternatives")
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: seed: begin tx")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE areas, pincodes, events, pois, alternatives`); err != nil {
		return eris.Wrap(err, "postgres: seed: truncate")
	}

	for i, a := range areas {
		if _, err := tx.Exec(ctx,
			`INSERT INTO areas (position, key, name, lat, lng) VALUES ($1, $2, $3, $4, $5)`,
			i+1, a.Key, a.Name, a.Location.Lat, a.Location.Lng,
		); err != nil {
			return eris.Wrapf(err, "postgres: seed: insert area %s", a.Key)
		}
	}

	for _, pc := range pincodes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO pincodes (code, area_key, lat, lng) VALUES ($1, $2, $3, $4)`,
			pc.Code, pc.AreaKey, pc.Location.Lat, pc.Location.Lng,
		); err != nil {
			return eris.Wrapf(err, "postgres: seed: insert pincode %s", pc.Code)
		}
	}

	for _, e := range events {
		sectors, err := json.Marshal(e.Impact.AffectedSectors)
		if err != nil {
			return eris.Wrapf(err, "postgres: seed: marshal sectors for %s", e.Name)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO events (id, name, category, description, lat, lng, sentiment, score, radius_m, sectors, impact_start)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			e.ID, e.Name, e.Category, e.Description,
			e.Location.Lat, e.Location.Lng,
			string(e.Impact.Sentiment), e.Impact.Score, e.Impact.RadiusMeters,
			sectors, e.Timelines.ImpactStart.Time,
		); err != nil {
			return eris.Wrapf(err, "postgres: seed: insert event %s", e.Name)
		}
	}

	for _, poi := range pois {
		if _, err := tx.Exec(ctx,
			`INSERT INTO pois (name, category, area, lat, lng) VALUES ($1, $2, $3, $4, $5)`,
			poi.Name, string(poi.Category), poi.Area, poi.Location.Lat, poi.Location.Lng,
		); err != nil {
			return eris.Wrapf(err, "postgres: seed: insert poi %s", poi.Name)
		}
	}

	for i, alt := range alternatives {
		if _, err := tx.Exec(ctx,
			`INSERT INTO alternatives (position, area, lat, lng, base_risk) VALUES ($1, $2, $3, $4, $5)`,
			i+1, alt.Area, alt.Location.Lat, alt.Location.Lng, alt.BaseRisk,
		); err != nil {
			return eris.Wrapf(err, "postgres: seed: insert alternative %s", alt.Area)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: seed: commit")
}

func (p *PostgresProvider) Areas(ctx context.Context) ([]model.Area, error) {
	rows, err := p.pool.Query(ctx, `SELECT key, name, lat, lng FROM areas ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query areas")
	}
	defer rows.Close()

	var areas []model.Area
	for rows.Next() {
		var a model.Area
		if err := rows.Scan(&a.Key, &a.Name, &a.Location.Lat, &a.Location.Lng); err != nil {
			return nil, eris.Wrap(err, "postgres: scan area")
		}
		areas = append(areas, a)
	}
	return areas, eris.Wrap(rows.Err(), "postgres: iterate areas")
}

func (p *PostgresProvider) Pincodes(ctx context.Context) ([]model.Pincode, error) {
	rows, err := p.pool.Query(ctx, `SELECT code, area_key, lat, lng FROM pincodes ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query pincodes")
	}
	defer rows.Close()

	var pincodes []model.Pincode
	for rows.Next() {
		var pc model.Pincode
		if err := rows.Scan(&pc.Code, &pc.AreaKey, &pc.Location.Lat, &pc.Location.Lng); err != nil {
			return nil, eris.Wrap(err, "postgres: scan pincode")
		}
		pincodes = append(pincodes, pc)
	}
	return pincodes, eris.Wrap(rows.Err(), "postgres: iterate pincodes")
}

func (p *PostgresProvider) Events(ctx context.Context) ([]model.Event, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, category, description, lat, lng, sentiment, score, radius_m, sectors, impact_start
		 FROM events ORDER BY impact_start, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query events")
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var (
			e         model.Event
			sentiment string
			sectors   []byte
			start     time.Time
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Description,
			&e.Location.Lat, &e.Location.Lng,
			&sentiment, &e.Impact.Score, &e.Impact.RadiusMeters,
			&sectors, &start,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan event")
		}
		e.Impact.Sentiment = model.Sentiment(sentiment)
		if err := json.Unmarshal(sectors, &e.Impact.AffectedSectors); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal sectors for %s", e.Name)
		}
		e.Timelines.ImpactStart = model.Date{Time: start}
		events = append(events, e)
	}
	return events, eris.Wrap(rows.Err(), "postgres: iterate events")
}

func (p *PostgresProvider) POIs(ctx context.Context) ([]model.POI, error) {
	rows, err := p.pool.Query(ctx, `SELECT name, category, area, lat, lng FROM pois ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query pois")
	}
	defer rows.Close()

	var pois []model.POI
	for rows.Next() {
		var (
			poi      model.POI
			category string
		)
		if err := rows.Scan(&poi.Name, &category, &poi.Area, &poi.Location.Lat, &poi.Location.Lng); err != nil {
			return nil, eris.Wrap(err, "postgres: scan poi")
		}
		poi.Category = model.POICategory(category)
		pois = append(pois, poi)
	}
	return pois, eris.Wrap(rows.Err(), "postgres: iterate pois")
}

func (p *PostgresProvider) Alternatives(ctx context.Context) ([]model.Alternative, error) {
	rows, err := p.pool.Query(ctx, `SELECT area, lat, lng, base_risk FROM alternatives ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query alternatives")
	}
	defer rows.Close()

	var alternatives []model.Alternative
	for rows.Next() {
		var alt model.Alternative
		if err := rows.Scan(&alt.Area, &alt.Location.Lat, &alt.Location.Lng, &alt.BaseRisk); err != nil {
			return nil, eris.Wrap(err, "postgres: scan alternative")
		}
		alternatives = append(alternatives, alt)
	}
	return alternatives, eris.Wrap(rows.Err(), "postgres: iterate alternatives")
}

func (p *PostgresProvider) Status(ctx context.Context) (model.DatasetStatus, error) {
	status := model.DatasetStatus{Source: "postgres", Counts: map[string]int{}}

	row := p.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM areas),
		        (SELECT COUNT(*) FROM pincodes),
		        (SELECT COUNT(*) FROM events),
		        (SELECT COUNT(*) FROM pois),
		        (SELECT COUNT(*) FROM alternatives)`)

	var areas, pincodes, events, pois, alternatives int
	if err := row.Scan(&areas, &pincodes, &events, &pois, &alternatives); err != nil {
		return status, eris.Wrap(err, "postgres: count datasets")
	}
	status.Counts["areas"] = areas
	status.Counts["pincodes"] = pincodes
	status.Counts["events"] = events
	status.Counts["pois"] = pois
	status.Counts["alternatives"] = alternatives
	return status, nil
}

func (p *PostgresProvider) Close() error {
	if p.closeFn != nil {
		p.closeFn()
	}
	return nil
}
