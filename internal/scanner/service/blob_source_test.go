package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestBlobSource(t *testing.T) {
	ctx := context.Background()

	t.Run("MemoryBucket", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		require.NoError(t, bucket.WriteAll(ctx, "logs/app.log", []byte("user a@b.io signed in"), nil))
		require.NoError(t, bucket.WriteAll(ctx, "notes.txt", []byte("nothing here"), nil))

		source := NewBlobSource("mem://test", bucket)
		defer func() {
			assert.NoError(t, source.Close())
		}()

		assert.Equal(t, "mem://test", source.Name())

		refs, err := source.List(ctx)
		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "logs/app.log", refs[0].Key)
		assert.Equal(t, int64(21), refs[0].Size)
		assert.Equal(t, "notes.txt", refs[1].Key)

		data, err := source.Read(ctx, "logs/app.log", 1024)
		require.NoError(t, err)
		assert.Equal(t, "user a@b.io signed in", string(data))
	})

	t.Run("ReadIsLimited", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		require.NoError(t, bucket.WriteAll(ctx, "big.txt", []byte(strings.Repeat("x", 100)), nil))
		source := NewBlobSource("mem://big", bucket)
		defer func() {
			_ = source.Close()
		}()

		data, err := source.Read(ctx, "big.txt", 10)
		require.NoError(t, err)
		assert.Len(t, data, 10)
	})

	t.Run("MissingObject", func(t *testing.T) {
		source := NewBlobSource("mem://empty", memblob.OpenBucket(nil))
		defer func() {
			_ = source.Close()
		}()

		_, err := source.Read(ctx, "missing.txt", 10)
		assert.Error(t, err)
	})

	t.Run("OpenFileBucket", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "export.csv"), []byte("ssn,123-45-6789"), 0o600))

		source, err := OpenBlobSource(ctx, "file://"+filepath.ToSlash(dir))
		require.NoError(t, err)
		defer func() {
			_ = source.Close()
		}()

		refs, err := source.List(ctx)
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "export.csv", refs[0].Key)
	})

	t.Run("OpenUnknownScheme", func(t *testing.T) {
		_, err := OpenBlobSource(ctx, "nope://bucket")
		assert.Error(t, err)
	})
}
