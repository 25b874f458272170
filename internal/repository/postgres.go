package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Junction-25/pdf-service/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

const (
	propertiesQuery = `
		SELECT id, address, lat, lon, price, area_sqm, property_type, number_of_rooms, description
		FROM properties
		ORDER BY id`

	contactsQuery = `
		SELECT id, name, preferred_locations, min_budget, max_budget,
		       min_area_sqm, max_area_sqm, property_types, min_rooms
		FROM contacts
		ORDER BY id`
)

// PostgresLoader reads the record dataset from PostgreSQL
type PostgresLoader struct {
	db *sqlx.DB
}

// connect is replaced in tests
var connect = sqlx.Connect

// NewPostgresLoader connects to PostgreSQL. The DSN is handed to lib/pq as
// is, in either URL or key=value form.
func NewPostgresLoader(dsn string, maxConn, maxIdleConn int) (*PostgresLoader, error) {
	db, err := connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PostgresLoader{db: db}, nil
}

// NewPostgresLoaderFromDB wraps an existing connection
func NewPostgresLoaderFromDB(db *sqlx.DB) *PostgresLoader {
	return &PostgresLoader{db: db}
}

// Close closes the database connection
func (l *PostgresLoader) Close() error {
	return l.db.Close()
}

// propertyRow flattens the location columns that model.Property nests
type propertyRow struct {
	ID            int64           `db:"id"`
	Address       string          `db:"address"`
	Lat           sql.NullFloat64 `db:"lat"`
	Lon           sql.NullFloat64 `db:"lon"`
	Price         float64         `db:"price"`
	AreaSqm       float64         `db:"area_sqm"`
	PropertyType  string          `db:"property_type"`
	NumberOfRooms int             `db:"number_of_rooms"`
	Description   sql.NullString  `db:"description"`
}

func (r propertyRow) toModel() model.Property {
	p := model.Property{
		ID:            r.ID,
		Address:       r.Address,
		Location:      model.GeoPoint{Lat: r.Lat.Float64, Lon: r.Lon.Float64},
		Price:         r.Price,
		AreaSqm:       r.AreaSqm,
		PropertyType:  model.PropertyType(r.PropertyType),
		NumberOfRooms: r.NumberOfRooms,
	}
	if r.Description.Valid {
		desc := r.Description.String
		p.Description = &desc
	}
	return p
}

// Load reads both tables concurrently and builds a snapshot
func (l *PostgresLoader) Load(ctx context.Context) (*Snapshot, error) {
	var (
		rows     []propertyRow
		contacts []model.Contact
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := l.db.SelectContext(gctx, &rows, propertiesQuery); err != nil {
			return fmt.Errorf("failed to load properties: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := l.db.SelectContext(gctx, &contacts, contactsQuery); err != nil {
			return fmt.Errorf("failed to load contacts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	properties := make([]model.Property, 0, len(rows))
	for _, r := range rows {
		properties = append(properties, r.toModel())
	}
	return NewSnapshot(properties, contacts)
}

// Ping checks the database connection
func (l *PostgresLoader) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}
