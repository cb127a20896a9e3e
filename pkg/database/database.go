package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/config"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/appointment"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/therapy"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinic", "auth", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&therapy.Therapy{},
		&appointment.Appointment{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// NoDoubleBookingIndex is the arbiter of the one-active-booking-per-slot
// rule. COALESCE folds a missing doctor into a fixed sentinel so unassigned
// bookings contend with each other but never with doctor-pinned ones, and
// cancelled rows fall outside the index entirely.
const NoDoubleBookingIndex = "idx_no_double_booking"

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		{
			name: NoDoubleBookingIndex,
			query: `CREATE UNIQUE INDEX IF NOT EXISTS idx_no_double_booking
				ON clinic.appointments (appointment_date, slot, (COALESCE(doctor_id, '00000000-0000-0000-0000-000000000000'::uuid)))
				WHERE status <> 'cancelled'`,
		},
		{
			name: "idx_appointments_date_status",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_date_status
				ON clinic.appointments (appointment_date, status)`,
		},
		{
			name: "idx_appointments_doctor_date",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date
				ON clinic.appointments (doctor_id, appointment_date) WHERE status <> 'cancelled'`,
		},
		{
			name: "idx_appointments_patient_created",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_patient_created
				ON clinic.appointments (patient_id, created_at DESC)`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
