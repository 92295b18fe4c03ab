// Package database opens the MySQL connection pool shared by every
// repository.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Options carries the connection parameters and pool limits. Pool fields
// left at zero fall back to defaults sized for a single storefront
// instance.
type Options struct {
	User            string
	Pass            string
	Host            string
	Port            string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// BuildDSN renders the MySQL DSN. parseTime=true maps DATETIME columns to
// time.Time, and loc=UTC keeps cart timestamps and order timestamps in one
// zone regardless of the server's locale.
func BuildDSN(o Options) string {
	auth := o.User
	if o.Pass != "" {
		auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, o.Host, o.Port, o.Name)
}

// withPoolDefaults fills unset pool limits.
func withPoolDefaults(o Options) Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 25
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = o.MaxOpenConns
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = 30 * time.Minute
	}
	return o
}

// Open connects to MySQL, applies the pool limits and verifies the
// connection with a bounded ping. Checkout holds row locks for the length
// of a transaction, so the pool ceiling doubles as a cap on concurrent
// checkouts per instance.
func Open(o Options) (*sql.DB, error) {
	db, err := sql.Open("mysql", BuildDSN(o))
	if err != nil {
		return nil, err
	}

	o = withPoolDefaults(o)
	db.SetMaxOpenConns(o.MaxOpenConns)
	db.SetMaxIdleConns(o.MaxIdleConns)
	db.SetConnMaxLifetime(o.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
