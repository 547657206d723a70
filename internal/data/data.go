package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"Inkwell/internal/conf"
	"Inkwell/internal/model"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Data holds every storage handle.
type Data struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Minio  *minio.Client
	Bucket string
}

func NewData(cfg *conf.Config) (*Data, func(), error) {
	// -------------------------------------------------------
	// 1. Database
	// -------------------------------------------------------
	db, err := OpenDB(cfg.Data.DatabaseDriver, cfg.Data.DatabaseSource, cfg.App.SlowQuery)
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, nil, err
	}
	log.Println("✅ Database schema migrated")

	// -------------------------------------------------------
	// 2. Redis
	// -------------------------------------------------------
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Data.RedisAddr,
		Password: cfg.Data.RedisPassword,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}
	log.Println("✅ Redis connected")

	// -------------------------------------------------------
	// 3. MinIO
	// -------------------------------------------------------
	minioClient, err := minio.New(cfg.Data.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Data.MinioAccessKey, cfg.Data.MinioSecretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("minio init failed: %w", err)
	}

	bucketName := cfg.Data.MinioBucket
	if bucketName == "" {
		bucketName = "inkwell-avatars"
	}
	if err := ensureBucket(context.Background(), minioClient, bucketName); err != nil {
		return nil, nil, err
	}

	d := &Data{
		DB:     db,
		Redis:  rdb,
		Minio:  minioClient,
		Bucket: bucketName,
	}

	cleanup := func() {
		log.Println("Closing data layer...")
		if sqlDB, err := d.DB.DB(); err == nil {
			sqlDB.Close()
		}
		d.Redis.Close()
	}

	return d, cleanup, nil
}

// OpenDB connects to postgres or sqlite and logs statements slower than slow.
func OpenDB(driver, dsn string, slow time.Duration) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	log.Printf("Connecting to %s...", driver) // never print the DSN, it carries the password

	gormLogger := logger.New(log.New(os.Stdout, "", log.LstdFlags), logger.Config{
		SlowThreshold:             slow,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Migrate creates or alters every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Follow{},
		&model.Post{},
		&model.Comment{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check failed: %w", err)
	}
	if exists {
		log.Printf("✅ MinIO connected (bucket '%s' exists)", bucket)
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio make bucket failed: %w", err)
	}
	log.Printf("🎉 MinIO bucket '%s' created", bucket)
	return nil
}

// PushTask appends payload to a Redis list used as a work queue.
func (d *Data) PushTask(ctx context.Context, queue string, payload string) error {
	return d.Redis.RPush(ctx, queue, payload).Err()
}

// PopTask blocks up to timeout for the next payload of queue.
// It returns ("", nil) when the wait timed out.
func (d *Data) PopTask(ctx context.Context, queue string, timeout time.Duration) (string, error) {
	result, err := d.Redis.BLPop(ctx, timeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return result[1], nil
}

// PutObject uploads r to the configured bucket.
func (d *Data) PutObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	if d.Minio == nil {
		return errors.New("object storage is not configured")
	}
	_, err := d.Minio.PutObject(ctx, d.Bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio upload failed: %w", err)
	}
	return nil
}

// GetObject opens objectName for reading and returns its size and content type.
func (d *Data) GetObject(ctx context.Context, objectName string) (io.ReadCloser, int64, string, error) {
	if d.Minio == nil {
		return nil, 0, "", errors.New("object storage is not configured")
	}
	obj, err := d.Minio.GetObject(ctx, d.Bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, "", err
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, "", err
	}
	return obj, info.Size, info.ContentType, nil
}
