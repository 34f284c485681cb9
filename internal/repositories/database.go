package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Repositories struct {
	DB             *sql.DB
	CartLine       CartLineRepository
	Catalog        ProductRepository
	Comment        CommentRepository
	Coupon         CouponRepository
	SupportMessage SupportMessageRepository
}

// Open connects to Postgres through an instrumented driver and checks the
// connection before returning.
func Open(ctx context.Context, cfg *config.Database) (*sql.DB, error) {

	db, err := otelsql.Open("postgres", cfg.GetDSN(), otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func New(db *sql.DB) *Repositories {
	return &Repositories{
		DB:             db,
		CartLine:       NewCartLineRepo(db),
		Catalog:        NewProductRepo(db),
		Comment:        NewCommentRepo(db),
		Coupon:         NewCouponRepo(db),
		SupportMessage: NewSupportMessageRepo(db),
	}
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
