package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotelpms/internal/config"
	"hotelpms/internal/database"
	"hotelpms/internal/database/migrations"
	"hotelpms/internal/domain/curve"
	"hotelpms/internal/domain/inventory"
	"hotelpms/internal/domain/season"
	"hotelpms/internal/domain/tariff"
	"hotelpms/internal/middleware"
	"hotelpms/internal/pkg/jwt"
	"hotelpms/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.IsProdLike() {
		zl.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if err := migrations.Run(db, zl); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	hotelID := cfg.HotelID

	zl.Info("cleaning old data", zap.Uint("hotel_id", hotelID))
	if err := clean(db, hotelID); err != nil {
		zl.Fatal("cleanup failed", zap.Error(err))
	}

	// ================== ROOM TYPES ==================
	roomTypes := []inventory.RoomType{
		{HotelID: hotelID, Name: "Single", PriceCoefficient: 0.8},
		{HotelID: hotelID, Name: "Doble", PriceCoefficient: 1},
		{HotelID: hotelID, Name: "Familiar", PriceCoefficient: 1.4},
	}
	must(zl, "room types", db.Create(&roomTypes).Error)
	single, double, family := roomTypes[0].ID, roomTypes[1].ID, roomTypes[2].ID

	// ================== ROOMS ==================
	rooms := []inventory.Room{
		{HotelID: hotelID, RoomTypeID: single, Name: "101", MaxPeople: 1, Tags: tags("planta-baja")},
		{HotelID: hotelID, RoomTypeID: single, Name: "102", MaxPeople: 1},
		{HotelID: hotelID, RoomTypeID: double, Name: "201", MaxPeople: 2, Tags: tags("vista-mar")},
		{HotelID: hotelID, RoomTypeID: double, Name: "202", MaxPeople: 2, Tags: tags("vista-mar", "balcon")},
		{HotelID: hotelID, RoomTypeID: double, Name: "203", MaxPeople: 2},
		{HotelID: hotelID, RoomTypeID: family, Name: "301", MaxPeople: 4, Tags: tags("vista-mar", "cuna")},
		{HotelID: hotelID, RoomTypeID: family, Name: "302", MaxPeople: 4, Status: inventory.RoomMaintenance},
	}
	must(zl, "rooms", db.Create(&rooms).Error)

	// ================== SERVICES ==================
	base := inventory.ServiceType{HotelID: hotelID, Name: "Solo Alojamiento", IsBase: true, Position: 0}
	must(zl, "base service", db.Create(&base).Error)
	breakfast := inventory.ServiceType{HotelID: hotelID, Name: "Con Desayuno", Position: 1}
	must(zl, "breakfast service", db.Create(&breakfast).Error)
	halfBoard := inventory.ServiceType{HotelID: hotelID, Name: "Media Pensión", ParentID: &breakfast.ID, Position: 2}
	must(zl, "half board service", db.Create(&halfBoard).Error)

	// ================== RESERVATIONS ==================
	today := time.Now().UTC().Truncate(24 * time.Hour)
	segments := []inventory.ReservationSegment{
		{RoomID: rooms[2].ID, ReservationID: 1, StartDate: today.AddDate(0, 0, 3), EndDate: today.AddDate(0, 0, 6), IsActive: true},
		{RoomID: rooms[5].ID, ReservationID: 2, StartDate: today, EndDate: today.AddDate(0, 0, 2), IsActive: true},
	}
	must(zl, "reservation segments", db.Create(&segments).Error)

	// ================== SEASON ==================
	invRepo := inventory.NewRepository(db)
	seasons := season.NewService(season.NewRepository(db), invRepo, nil, zl)

	year := today.Year()
	start := fmt.Sprintf("%d-12-15", year)
	end := fmt.Sprintf("%d-03-01", year+1)
	confirmed := false
	verano, err := seasons.Save(ctx, hotelID, 0, season.BlockInput{
		Name:      "Verano",
		StartDate: &start,
		EndDate:   &end,
		IsDraft:   &confirmed,
		Prices: []season.PriceInput{
			{RoomTypeID: single, BasePrice: 38000},
			{RoomTypeID: double, BasePrice: 49500},
			{RoomTypeID: family, BasePrice: 72000},
		},
		Adjustments: []season.AdjustmentInput{
			{RoomTypeID: single, ServiceTypeID: breakfast.ID, Mode: season.ModeFixed, Value: 6000},
			{RoomTypeID: double, ServiceTypeID: breakfast.ID, Mode: season.ModeFixed, Value: 8000},
			{RoomTypeID: family, ServiceTypeID: breakfast.ID, Mode: season.ModeFixed, Value: 14000},
			{RoomTypeID: single, ServiceTypeID: halfBoard.ID, Mode: season.ModePercentage, Value: 12},
			{RoomTypeID: double, ServiceTypeID: halfBoard.ID, Mode: season.ModePercentage, Value: 14},
			{RoomTypeID: family, ServiceTypeID: halfBoard.ID, Mode: season.ModePercentage, Value: 15},
		},
	}, false)
	must(zl, "season block", err)

	// ================== MEAL RULES ==================
	rules := tariff.NewMealRuleRepository(db)
	must(zl, "breakfast rule", rules.Upsert(ctx, &tariff.MealRule{
		HotelID: hotelID, ServiceTypeID: breakfast.ID, Mode: season.ModeFixed, Value: 7000,
	}))
	must(zl, "half board rule", rules.Upsert(ctx, &tariff.MealRule{
		HotelID: hotelID, ServiceTypeID: halfBoard.ID, Mode: season.ModePercentage, Value: 12,
	}))

	// ================== CURVE ==================
	curves := curve.NewService(curve.NewRepository(db), nil)
	_, err = curves.Replace(ctx, hotelID, curve.ReplaceRequest{Keyframes: []curve.KeyframeInput{
		{Date: fmt.Sprintf("%d-01-01", year), Value: 52000},
		{Date: fmt.Sprintf("%d-04-01", year), Value: 40000},
		{Date: fmt.Sprintf("%d-07-01", year), Value: 36000},
		{Date: fmt.Sprintf("%d-10-01", year), Value: 44000},
		{Date: fmt.Sprintf("%d-12-31", year), Value: 55000},
	}})
	must(zl, "seasonal curve", err)

	token, err := jwt.New(cfg.JWTSecret, 30*24*time.Hour).GenerateToken(1, hotelID, middleware.RoleManager)
	must(zl, "dev token", err)

	zl.Info("seed completed",
		zap.Uint("hotel_id", hotelID),
		zap.Int("room_types", len(roomTypes)),
		zap.Int("rooms", len(rooms)),
		zap.Uint("season_block_id", verano.ID))
	fmt.Printf("\nManager token (30 days):\n%s\n", token)
}

func clean(db *gorm.DB, hotelID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		blockIDs := tx.Table("season_blocks").Select("id").Where("hotel_id = ?", hotelID)
		roomIDs := tx.Table("rooms").Select("id").Where("hotel_id = ?", hotelID)
		steps := []*gorm.DB{
			tx.Where("block_id IN (?)", blockIDs).Delete(&season.Price{}),
			tx.Where("block_id IN (?)", blockIDs).Delete(&season.ServiceAdjustment{}),
			tx.Where("block_id IN (?)", blockIDs).Delete(&season.ServiceSelection{}),
			tx.Where("hotel_id = ?", hotelID).Delete(&season.Block{}),
			tx.Where("room_id IN (?)", roomIDs).Delete(&inventory.ReservationSegment{}),
			tx.Where("hotel_id = ?", hotelID).Delete(&inventory.Room{}),
			tx.Where("hotel_id = ?", hotelID).Delete(&inventory.ServiceType{}),
			tx.Where("hotel_id = ?", hotelID).Delete(&inventory.RoomType{}),
			tx.Where("hotel_id = ?", hotelID).Delete(&tariff.MealRule{}),
			tx.Where("hotel_id = ?", hotelID).Delete(&curve.Keyframe{}),
		}
		for _, s := range steps {
			if s.Error != nil {
				return s.Error
			}
		}
		return nil
	})
}

func tags(t ...string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](t)
}

func must(zl *zap.Logger, what string, err error) {
	if err != nil {
		zl.Fatal("seed step failed", zap.String("step", what), zap.Error(err))
	}
}
