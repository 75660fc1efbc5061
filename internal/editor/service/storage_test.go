package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	fsStore, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return map[string]Storage{
		"fs":     fsStore,
		"memory": NewMemoryStorage(),
	}
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			info, err := s.Put(ctx, "run-1/bauplan-top.png", strings.NewReader("png-bytes"), "image/png")
			require.NoError(t, err)
			assert.Equal(t, "run-1/bauplan-top.png", info.Key)
			assert.EqualValues(t, 9, info.Size)

			_, err = s.Put(ctx, "run-1/bauplan-top.png", strings.NewReader("png"), "image/png")
			require.NoError(t, err)

			data, got, err := ReadAll(ctx, s, "run-1/bauplan-top.png")
			require.NoError(t, err)
			assert.Equal(t, "png", string(data))
			assert.Equal(t, "image/png", got.ContentType)

			_, err = s.Put(ctx, "run-1/bauplan-north.png", strings.NewReader("n"), "image/png")
			require.NoError(t, err)
			_, err = s.Put(ctx, "run-2/bauplan-top.png", strings.NewReader("t"), "image/png")
			require.NoError(t, err)

			list, err := s.List(ctx, "run-1/")
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "run-1/bauplan-north.png", list[0].Key)

			require.NoError(t, s.Delete(ctx, "run-1/bauplan-north.png"))
			err = s.Delete(ctx, "run-1/bauplan-north.png")
			assert.True(t, errors.Is(err, ErrNotFound))

			_, _, err = s.Get(ctx, "missing.png")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../x.png", "/etc/passwd", "a/../../x"} {
		_, err := s.Path(key)
		assert.Error(t, err, key)
	}
	p, err := s.Path("a/b.png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, "b.png"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, s.Driver())

	s, err = Open(ctx, Options{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(ctx, Options{Driver: "s3"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: "ftp"})
	assert.Error(t, err)
}
