package config

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/raduvm/ticketline/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       os.Getenv("PORT"),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}
	return cfg, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	if err := db.SetupJoinTable(&models.Package{}, "Events", &models.PackageEvent{}); err != nil {
		return nil, err
	}
	if err := db.SetupJoinTable(&models.Event{}, "Packages", &models.PackageEvent{}); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Package{},
		&models.PackageEvent{},
		&models.Ticket{},
		&models.RevokedToken{},
	)
	if err != nil {
		return nil, err
	}

	seedUsers(db)

	return db, nil
}

// seedUsers creates the fixed administrative and service accounts if they are
// missing. Regular accounts go through /register.
func seedUsers(db *gorm.DB) {
	seeds := []struct {
		name     string
		email    string
		password string
		role     models.Role
	}{
		{"Administrator", "admin@local", "admin", models.RoleAdmin},
		{"Service Account", "service@local", "service", models.RoleServiceClient},
	}

	for _, seed := range seeds {
		var existing models.User
		if result := db.Where("email = ?", seed.email).First(&existing); result.Error == nil {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("failed to hash seed password for %s: %v", seed.email, err)
			continue
		}
		user := models.User{
			Name:     seed.name,
			Email:    seed.email,
			Password: string(hashed),
			Role:     seed.role,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("failed to seed user %s: %v", seed.email, err)
		}
	}
}
