package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go-hrms/internal/config"

	"github.com/glebarez/sqlite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormDB wraps the relational connection used by the approval engine and
// the HR request tables.
type GormDB struct {
	DB *gorm.DB
}

// MongodbDB wraps the document store used for notifications, audit logs,
// automation scripts and the async log sink.
type MongodbDB struct {
	DB *mongo.Database
}

// NewGormDB opens the relational database. A postgres:// DSN selects the
// Postgres driver; anything else (including empty) falls back to a local
// SQLite file so the app runs without infrastructure in development.
func NewGormDB(lc fx.Lifecycle, cfg *config.Config) (*GormDB, error) {
	dsn := cfg.DatabaseDSN

	var (
		db  *gorm.DB
		err error
	)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err = gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
	} else {
		if dsn == "" {
			dsn = "file:data/go-hrms.db"
		}
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		return nil, err
	}

	log.Println("Connected to relational database")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return &GormDB{DB: db}, nil
}

// NewMongoDB creates the MongoDB connection with lifecycle management
func NewMongoDB(lc fx.Lifecycle, cfg *config.Config) (*MongodbDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB!")

	db := client.Database(cfg.MongoDBName)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Disconnecting from MongoDB...")
			return client.Disconnect(ctx)
		},
	})

	return &MongodbDB{DB: db}, nil
}
