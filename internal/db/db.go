package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clippr-app/clippr-api/internal/config"
	"github.com/clippr-app/clippr-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.User{},
		&models.Barber{},
		&models.Service{},
		&models.WorkingHours{},
		&models.TimeOff{},
		&models.Reservation{},
		&models.Review{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE barbershops
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	// A invariante de não-sobreposição vive também no banco: mesmo que a
	// checagem de aplicação falhe ou outro writer apareça, dois inserts de
	// reservas ativas do mesmo barbeiro em intervalos que se tocam não
	// passam da constraint de exclusão. As colunas são timestamptz, então o
	// range tem de ser tstzrange; subir sem a constraint deixaria a reserva
	// sem a última linha de defesa, daí o Fatalf.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Fatalf("failed to create btree_gist extension: %v", err)
	}
	if err := db.Exec(reservationExclusionSQL).Error; err != nil {
		log.Fatalf("failed to create reservations_no_overlap constraint: %v", err)
	}

	return db
}

const reservationExclusionSQL = `
    DO $$ BEGIN
        ALTER TABLE reservations
            ADD CONSTRAINT reservations_no_overlap
            EXCLUDE USING gist (
                barber_id WITH =,
                tstzrange(start_time, end_time) WITH &&
            )
            WHERE (status IN ('pending', 'confirmed'));
    EXCEPTION
        WHEN duplicate_object THEN NULL;
        WHEN duplicate_table THEN NULL;
    END $$
`
