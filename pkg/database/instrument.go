package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gayatrijangid/panchakarma-booking-system/pkg/metrics"
)

const startTimeKey = "metrics:start_time"

// Instrument registers gorm callbacks that feed query latency into the
// collector and starts a background sampler for the connection gauge. The
// sampler stops when ctx is cancelled.
func Instrument(ctx context.Context, db *gorm.DB, collector *metrics.Collector) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(startTimeKey, time.Now())
	}
	after := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startTimeKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			collector.DBQueryDuration.WithLabelValues(op, tx.Statement.Table).Observe(time.Since(start).Seconds())
		}
	}

	hooks := []struct {
		op       string
		register func(before, after func(*gorm.DB)) error
	}{
		{"create", func(b, a func(*gorm.DB)) error {
			if err := db.Callback().Create().Before("gorm:create").Register("metrics:before_create", b); err != nil {
				return err
			}
			return db.Callback().Create().After("gorm:create").Register("metrics:after_create", a)
		}},
		{"query", func(b, a func(*gorm.DB)) error {
			if err := db.Callback().Query().Before("gorm:query").Register("metrics:before_query", b); err != nil {
				return err
			}
			return db.Callback().Query().After("gorm:query").Register("metrics:after_query", a)
		}},
		{"update", func(b, a func(*gorm.DB)) error {
			if err := db.Callback().Update().Before("gorm:update").Register("metrics:before_update", b); err != nil {
				return err
			}
			return db.Callback().Update().After("gorm:update").Register("metrics:after_update", a)
		}},
		{"delete", func(b, a func(*gorm.DB)) error {
			if err := db.Callback().Delete().Before("gorm:delete").Register("metrics:before_delete", b); err != nil {
				return err
			}
			return db.Callback().Delete().After("gorm:delete").Register("metrics:after_delete", a)
		}},
	}
	for _, h := range hooks {
		if err := h.register(before, after(h.op)); err != nil {
			return fmt.Errorf("registering %s metrics callback: %w", h.op, err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}
	}()

	return nil
}
