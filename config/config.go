package config

import (
	"log"
	"os"

	"littlelemon-api/models"

	"github.com/glebarez/sqlite"
	"github.com/goccy/go-yaml"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret signs bearer tokens — overridable through config or env
var JWTSecret = []byte("littlelemon_super_secret_2024")

type Config struct {
	Port      string `yaml:"port"`
	GinMode   string `yaml:"gin_mode"`
	DBPath    string `yaml:"db_path"`
	JWTSecret string `yaml:"jwt_secret"`
}

// Load reads the YAML config file if present, then applies environment
// overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:   "8080",
		DBPath: "littlelemon.db",
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	if cfg.JWTSecret != "" {
		JWTSecret = []byte(cfg.JWTSecret)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated")
}

// Migrate runs the schema migration for all models. Split out so tests can
// point an in-memory database at the same schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Category{},
		&models.MenuItem{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}
