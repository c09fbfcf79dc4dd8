package config

import (
	"fmt"

	"github.com/Rahat-721/GiveBD/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the shared database handle
var DB *gorm.DB

// RedisClient backs the gateway token caches
var RedisClient *redis.Client

// InitDB initializes the database connection and runs migrations
func InitDB() {
	config := AppConfig
	if config == nil {
		var err error
		config, err = LoadConfig()
		if err != nil {
			panic(fmt.Sprintf("Failed to load config: %v", err))
		}
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	err = DB.AutoMigrate(
		&models.User{},
		&models.Campaign{},
		&models.Donation{},
		&models.BloodRequest{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}

// InitRedis initializes the redis client used for gateway token caching
func InitRedis() {
	config := AppConfig
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       0,
	})
}
