package migrations

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hotelpms/internal/database"
	"hotelpms/internal/domain/calendar"
	"hotelpms/internal/domain/curve"
	"hotelpms/internal/domain/dynamicpricing"
	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/domain/season"
	"hotelpms/internal/domain/tariff"
	"hotelpms/internal/pkg/logger"
)

// Models lists every table the service owns, parents before children.
func Models() []any {
	return []any{
		&inventory.RoomType{},
		&inventory.ServiceType{},
		&inventory.Room{},
		&inventory.ReservationSegment{},
		&calendar.Override{},
		&curve.Keyframe{},
		&season.Block{},
		&season.Price{},
		&season.ServiceAdjustment{},
		&season.ServiceSelection{},
		&tariff.MealRule{},
		&dynamicpricing.Config{},
		&dynamicpricing.MarketIndex{},
	}
}

// confirmed season blocks of one hotel may not share a night unless allow_overlap is set
var postgresStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'season_blocks_no_overlap') THEN
		ALTER TABLE season_blocks ADD CONSTRAINT season_blocks_no_overlap
			EXCLUDE USING gist (hotel_id WITH =, daterange(start_date, end_date, '[)') WITH &&)
			WHERE (is_draft = false AND allow_overlap = false);
	END IF;
END $$`,
}

// Run migrates the schema. On PostgreSQL it also installs the season overlap constraint;
// other drivers rely on the locked check in the season repository alone.
func Run(db *gorm.DB, log *zap.Logger) error {
	log = logger.OrNop(log)

	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}

	if database.IsPostgres(db) {
		for _, stmt := range postgresStatements {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("postgres constraint: %w", err)
			}
		}
	}

	log.Info("schema migrated", zap.Int("tables", len(Models())), zap.String("dialect", db.Dialector.Name()))
	return nil
}
