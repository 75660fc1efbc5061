package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"
)

// ============================================================
// Blob Storage
// ============================================================

// Driver: имя реализации хранилища.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

var ErrNotFound = errors.New("storage: not found")

// Info описывает сохраненный объект.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Storage хранит снимки экспорта и файлы проектов. Put перезаписывает ключ.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// Options: параметры выбора хранилища (см. config.Config).
type Options struct {
	Driver     string
	Root       string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	PathStyle  bool
}

// Open выбирает реализацию по opts.Driver: fs (по умолчанию), s3 или memory.
func Open(ctx context.Context, opts Options) (Storage, error) {
	driver := Driver(opts.Driver)
	if driver == "" {
		driver = DriverFilesystem
	}
	log.Printf("[STORAGE] driver %s", driver)
	switch driver {
	case DriverFilesystem:
		return NewFileStorage(opts.Root)
	case DriverS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:    opts.S3Bucket,
			Region:    opts.S3Region,
			Endpoint:  opts.S3Endpoint,
			PathStyle: opts.PathStyle,
		})
	case DriverMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// ReadAll: Get целиком в память.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, Info, error) {
	info, rc, err := s.Get(ctx, key)
	if err != nil {
		return nil, Info{}, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, Info{}, fmt.Errorf("read %s: %w", key, err)
	}
	return data, info, nil
}
