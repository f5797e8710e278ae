package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"solidapi/internal/config"
	"solidapi/internal/logger"
	"solidapi/internal/models"
)

// DatabasePingTimeout bounds the connectivity check made by Open.
const DatabasePingTimeout = 10 * time.Second

// Database is the data context for the product store. It owns the gorm
// handle and knows how to build and seed the schema.
type Database struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the configured driver and verifies the connection.
func Open(cfg *config.Config, log zerolog.Logger) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(log, cfg.Log.SlowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Database{
		db:  db,
		log: log.With().Str("driver", cfg.Database.Driver).Logger(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}

	if cfg.Database.Driver == "postgres" {
		d.log.Info().
			Str("addr", cfg.Database.Addr()).
			Str("connection", cfg.Database.RedactedConnectionString()).
			Msg("connected to database")
	} else {
		d.log.Info().Str("path", cfg.Database.SQLitePath).Msg("connected to database")
	}
	return d, nil
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB, log zerolog.Logger) *Database {
	return &Database{db: db, log: log}
}

// SeedProducts returns the rows inserted when the schema is first built.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:          1,
			Name:        "Product 1",
			Description: "Product 1 description",
			Price:       decimal.NewFromInt(100),
			CreatedDate: time.Now().UTC().Truncate(time.Microsecond),
		},
	}
}

// Migrate creates or updates the products table. Seed data is applied only
// when this call creates the table, so later edits or deletes of seed rows stick.
func (d *Database) Migrate(ctx context.Context) error {
	existed := d.db.WithContext(ctx).Migrator().HasTable(&models.Product{})
	if err := d.db.WithContext(ctx).AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	if existed {
		d.log.Info().Msg("products schema ready")
		return nil
	}

	seed := SeedProducts()
	res := d.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seed)
	if res.Error != nil {
		return fmt.Errorf("failed to seed products: %w", res.Error)
	}
	d.log.Info().Int64("seeded", res.RowsAffected).Msg("products schema created")

	// Explicit ids do not advance a postgres serial, so realign it with the table.
	if d.db.Dialector.Name() == "postgres" {
		err := d.db.WithContext(ctx).
			Exec("SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT COALESCE(MAX(id), 1) FROM products))").
			Error
		if err != nil {
			return fmt.Errorf("failed to realign products id sequence: %w", err)
		}
	}
	return nil
}

// Products exposes the queryable Product collection bound to ctx.
func (d *Database) Products(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Model(&models.Product{})
}

// DB returns the raw gorm handle bound to ctx.
func (d *Database) DB(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// Ping checks that the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
