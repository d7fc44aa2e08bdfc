package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the single access point to the backing Postgres database:
// catalog and reference tables through gorm models, canonical datastream
// tables and per-column views through raw SQL. The redis client is
// optional and only backs the advisory pipeline run lock.
type Storage struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewStorage(opts ...Option) (*Storage, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		options.dbHost,
		options.dbUser,
		options.dbPassword,
		options.dbName,
		options.dbPort,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		Variable{}, Unit{}, QuantityKind{}, VariableRange{},
		Equipment{}, EquipmentPosition{}, EquipmentAttachment{},
		Datastream{},
	)
	if err != nil {
		return nil, err
	}

	err = db.Exec(`
		CREATE TABLE IF NOT EXISTS ` + quoteIdent(datastreamTemplateTable) + ` (
			utc_time   BIGINT PRIMARY KEY,
			data_value DOUBLE PRECISION,
			qa_flag    CHAR(1)
		)`).Error
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if options.redisAddress != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: options.redisAddress})
		_, err = redisClient.Ping(context.Background()).Result()
		if err != nil {
			return nil, err
		}
	}

	return &Storage{
		db:    db,
		redis: redisClient,
	}, nil
}

// Redis returns the advisory-lock client, nil when none is configured.
func (s *Storage) Redis() *redis.Client {
	return s.redis
}

func (s *Storage) Close() error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}

	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// quoteIdent double-quotes a Postgres identifier. Table and view names
// here are synthesized from feeder table and column names, never taken
// from request input.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
