package dataset

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// SQLiteProvider serves the datasets from a local SQLite database.
type SQLiteProvider struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteProvider{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS areas (
	position INTEGER PRIMARY KEY,
	key      TEXT NOT NULL UNIQUE,
	name     TEXT NOT NULL,
	lat      REAL NOT NULL,
	lng      REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS pincodes (
	code     TEXT PRIMARY KEY,
	area_key TEXT NOT NULL,
	lat      REAL NOT NULL,
	lng      REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	lat          REAL NOT NULL,
	lng          REAL NOT NULL,
	sentiment    TEXT NOT NULL,
	score        REAL NOT NULL,
	radius_m     REAL NOT NULL,
	sectors      TEXT NOT NULL,
	impact_start TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pois (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL,
	category TEXT NOT NULL,
	area     TEXT NOT NULL DEFAULT '',
	lat      REAL NOT NULL,
	lng      REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS alternatives (
	position  INTEGER PRIMARY KEY,
	area      TEXT NOT NULL UNIQUE,
	lat       REAL NOT NULL,
	lng       REAL NOT NULL,
	base_risk REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
CREATE INDEX IF NOT EXISTS idx_pois_category ON pois(category);
`

// Migrate creates the dataset schema.
func (p *SQLiteProvider) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Seed replaces every dataset table's contents with the datasets served by
// src. Used by the datasets migrate command.
func (p *SQLiteProvider) Seed(ctx context.Context, src Provider) error {
	areas, err := src.Areas(ctx)
	if err != nil {
		return eris.Wrap(err, "sqlite: seed: read areas")
	}
	pincodes, err := src.Pincodes(ctx)
	if err != nil {
		return eris.Wrap(err, "sqlite: seed: read pincodes")
	}
	events, err := src.Events(ctx)
	if err != nil {
		return eris.Wrap(err, "sqlite: seed: read events")
	}
	pois, err := src.POIs(ctx)
	if err != nil {
		return eris.Wrap(err, "sqlite: seed: read pois")
	}
	alternatives, err := src.Alternatives(ctx)
	if err != nil {
		return eris.Wrap(err, "sqlite: seed: read alternatives")
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: seed: begin tx")
	}
	defer tx.Rollback()

	for _, table := range []string{"areas", "pincodes", "events", "pois", "alternatives"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return eris.Wrapf(err, "sqlite: seed: clear %s", table)
		}
	}

	for i, a := range areas {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO areas (position, key, name, lat, lng) VALUES (?, ?, ?, ?, ?)`,
			i+1, a.Key, a.Name, a.Location.Lat, a.Location.Lng,
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed: insert area %s", a.Key)
		}
	}

	for _, pc := range pincodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pincodes (code, area_key, lat, lng) VALUES (?, ?, ?, ?)`,
			pc.Code, pc.AreaKey, pc.Location.Lat, pc.Location.Lng,
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed: insert pincode %s", pc.Code)
		}
	}

	for _, e := range events {
		sectors, err := json.Marshal(e.Impact.AffectedSectors)
		if err != nil {
			return eris.Wrapf(err, "sqlite: seed: marshal sectors for %s", e.Name)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, name, category, description, lat, lng, sentiment, score, radius_m, sectors, impact_start)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Name, e.Category, e.Description,
			e.Location.Lat, e.Location.Lng,
			string(e.Impact.Sentiment), e.Impact.Score, e.Impact.RadiusMeters,
			string(sectors), e.Timelines.ImpactStart.String(),
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed: insert event %s", e.Name)
		}
	}

	for _, poi := range pois {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pois (name, category, area, lat, lng) VALUES (?, ?, ?, ?, ?)`,
			poi.Name, string(poi.Category), poi.Area, poi.Location.Lat, poi.Location.Lng,
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed: insert poi %s", poi.Name)
		}
	}

	for i, alt := range alternatives {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO alternatives (position, area, lat, lng, base_risk) VALUES (?, ?, ?, ?, ?)`,
			i+1, alt.Area, alt.Location.Lat, alt.Location.Lng, alt.BaseRisk,
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed: insert alternative %s", alt.Area)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: seed: commit")
}

func (p *SQLiteProvider) Areas(ctx context.Context) ([]model.Area, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT key, name, lat, lng FROM areas ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query areas")
	}
	defer rows.Close()

	var areas []model.Area
	for rows.Next() {
		var a model.Area
		if err := rows.Scan(&a.Key, &a.Name, &a.Location.Lat, &a.Location.Lng); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan area")
		}
		areas = append(areas, a)
	}
	return areas, eris.Wrap(rows.Err(), "sqlite: iterate areas")
}

func (p *SQLiteProvider) Pincodes(ctx context.Context) ([]model.Pincode, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT code, area_key, lat, lng FROM pincodes ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query pincodes")
	}
	defer rows.Close()

	var pincodes []model.Pincode
	for rows.Next() {
		var pc model.Pincode
		if err := rows.Scan(&pc.Code, &pc.AreaKey, &pc.Location.Lat, &pc.Location.Lng); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan pincode")
		}
		pincodes = append(pincodes, pc)
	}
	return pincodes, eris.Wrap(rows.Err(), "sqlite: iterate pincodes")
}

func (p *SQLiteProvider) Events(ctx context.Context) ([]model.Event, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, category, description, lat, lng, sentiment, score, radius_m, sectors, impact_start
		 FROM events ORDER BY impact_start, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query events")
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var (
			e         model.Event
			sentiment string
			sectors   string
			start     string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Description,
			&e.Location.Lat, &e.Location.Lng,
			&sentiment, &e.Impact.Score, &e.Impact.RadiusMeters,
			&sectors, &start,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan event")
		}
		e.Impact.Sentiment = model.Sentiment(sentiment)
		if err := json.Unmarshal([]byte(sectors), &e.Impact.AffectedSectors); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal sectors for %s", e.Name)
		}
		date, err := model.ParseDate(start)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse impact start for %s", e.Name)
		}
		e.Timelines.ImpactStart = date
		events = append(events, e)
	}
	return events, eris.Wrap(rows.Err(), "sqlite: iterate events")
}

func (p *SQLiteProvider) POIs(ctx context.Context) ([]model.POI, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT name, category, area, lat, lng FROM pois ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query pois")
	}
	defer rows.Close()

	var pois []model.POI
	for rows.Next() {
		var (
			poi      model.POI
			category string
		)
		if err := rows.Scan(&poi.Name, &category, &poi.Area, &poi.Location.Lat, &poi.Location.Lng); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan poi")
		}
		poi.Category = model.POICategory(category)
		pois = append(pois, poi)
	}
	return pois, eris.Wrap(rows.Err(), "sqlite: iterate pois")
}

func (p *SQLiteProvider) Alternatives(ctx context.Context) ([]model.Alternative, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT area, lat, lng, base_risk FROM alternatives ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query alternatives")
	}
	defer rows.Close()

	var alternatives []model.Alternative
	for rows.Next() {
		var alt model.Alternative
		if err := rows.Scan(&alt.Area, &alt.Location.Lat, &alt.Location.Lng, &alt.BaseRisk); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan alternative")
		}
		alternatives = append(alternatives, alt)
	}
	return alternatives, eris.Wrap(rows.Err(), "sqlite: iterate alternatives")
}

func (p *SQLiteProvider) Status(ctx context.Context) (model.DatasetStatus, error) {
	status := model.DatasetStatus{Source: "sqlite", Counts: map[string]int{}}

	row := p.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM areas),
		        (SELECT COUNT(*) FROM pincodes),
		        (SELECT COUNT(*) FROM events),
		        (SELECT COUNT(*) FROM pois),
		        (SELECT COUNT(*) FROM alternatives)`)

	var areas, pincodes, events, pois, alternatives int
	if err := row.Scan(&areas, &pincodes, &events, &pois, &alternatives); err != nil {
		return status, eris.Wrap(err, "sqlite: count datasets")
	}
	status.Counts["areas"] = areas
	status.Counts["pincodes"] = pincodes
	status.Counts["events"] = events
	status.Counts["pois"] = pois
	status.Counts["alternatives"] = alternatives
	return status, nil
}

func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}
