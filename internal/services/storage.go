package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const defaultStorageTimeout = 5 * time.Second

// Storage is the database handle shared by all services. Every call runs under
// its own deadline and driver errors are folded into the package sentinels.
type Storage struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewStorage wraps db. A nil db yields a Storage whose reads come back empty and
// whose writes fail with ErrStorageUnavailable.
func NewStorage(db *gorm.DB, timeout time.Duration) *Storage {
	if timeout <= 0 {
		timeout = defaultStorageTimeout
	}
	return &Storage{db: db, timeout: timeout}
}

func (s *Storage) DB() *gorm.DB {
	return s.db
}

func (s *Storage) run(ctx context.Context, fn func(db *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return ErrStorageUnavailable
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return classify(fn(s.db.WithContext(ctx)))
}

func (s *Storage) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.run(ctx, func(db *gorm.DB) error {
		return db.Transaction(fn)
	})
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrStorageTimeout):
		return err
	case isTimeout(err):
		return fmt.Errorf("%w: %v", ErrStorageTimeout, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	case isDuplicate(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err)
}

func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	var opErr *net.OpError
	return errors.As(err, &connErr) ||
		errors.As(err, &opErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// degrade turns an unreachable-storage error on a read path into an empty result.
func degrade[T any](op string, empty T, err error) (T, error) {
	if errors.Is(err, ErrStorageUnavailable) {
		slog.Warn("storage unavailable, serving empty result", "op", op, "error", err)
		return empty, nil
	}
	return empty, err
}

// exists returns missing when no row of model has the given id.
func exists(tx *gorm.DB, model interface{}, id uint, missing error) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return missing
	}
	return nil
}

func notFound(err error, missing error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing
	}
	return err
}
