package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// ============================================================
// Memory Storage
// ============================================================

type memoryObject struct {
	info Info
	data []byte
}

// MemoryStorage держит объекты в памяти процесса (тесты, dev).
type MemoryStorage struct {
	mu   sync.RWMutex
	objs map[string]memoryObject
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objs: make(map[string]memoryObject)}
}

func (s *MemoryStorage) Driver() Driver { return DriverMemory }

func (s *MemoryStorage) Put(_ context.Context, key string, r io.Reader, contentType string) (Info, error) {
	if key == "" {
		return Info{}, fmt.Errorf("invalid key %q", key)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, fmt.Errorf("read %s: %w", key, err)
	}
	info := Info{Key: key, Size: int64(len(data)), ContentType: contentType, LastModified: time.Now().UTC()}

	s.mu.Lock()
	s.objs[key] = memoryObject{info: info, data: data}
	s.mu.Unlock()
	return info, nil
}

func (s *MemoryStorage) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return Info{}, nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	data := bytes.Clone(obj.data)
	return obj.info, io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objs[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(s.objs, key)
	return nil
}

func (s *MemoryStorage) List(_ context.Context, prefix string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var infos []Info
	for key, obj := range s.objs {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, obj.info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}
