package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"frontdesk-backend/models"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "frontdesk_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase puts a usable demo property in place on first boot: settings
// with a room-type table and tax rate, and a handful of rooms.
func SeedDatabase() {
	const demoHotelID = 1

	var settingCount int64
	DB.Model(&models.HotelSetting{}).Count(&settingCount)
	if settingCount == 0 {
		roomTypes := []models.RoomTypeConfig{
			{Type: "Standard", BasePrice: 2000, MaxGuests: 2, Count: 4, Active: true},
			{Type: "Deluxe", BasePrice: 3500, MaxGuests: 3, Count: 3, Active: true},
			{Type: "Suite", BasePrice: 6000, MaxGuests: 4, Count: 1, Active: true},
		}
		raw, err := json.Marshal(roomTypes)
		if err != nil {
			log.Printf("warning: failed to marshal room types: %v", err)
			return
		}
		setting := models.HotelSetting{
			HotelID:    demoHotelID,
			Name:       "Demo Hotel",
			Currency:   "INR",
			TaxPercent: 0,
			RoomTypes:  datatypes.JSON(raw),
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed hotel settings: %v", err)
		} else {
			log.Println("Hotel settings seeded")
		}
	}

	var roomCount int64
	DB.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{HotelID: demoHotelID, RoomNumber: "101", Type: "Standard", Floor: "1", PricePerNight: 2000, MaxOccupancy: 2, StatusOverride: models.RoomVacant, IsActive: true},
			{HotelID: demoHotelID, RoomNumber: "102", Type: "Standard", Floor: "1", PricePerNight: 2000, MaxOccupancy: 2, StatusOverride: models.RoomVacant, IsActive: true},
			{HotelID: demoHotelID, RoomNumber: "201", Type: "Deluxe", Floor: "2", PricePerNight: 3500, MaxOccupancy: 3, StatusOverride: models.RoomVacant, IsActive: true},
			{HotelID: demoHotelID, RoomNumber: "301", Type: "Suite", Floor: "3", PricePerNight: 6000, MaxOccupancy: 4, StatusOverride: models.RoomVacant, IsActive: true},
		}
		if err := DB.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Rooms seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.HotelSetting{},
		&models.Room{},
		&models.Reservation{},
		&models.Invoice{},
		&models.Payment{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
