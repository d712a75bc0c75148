package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func TestStorageInterfaceCompliance(t *testing.T) {
	var _ storage.Storage = (*storage.LocalStorage)(nil)
	var _ storage.Storage = (*storage.AzureBlobStorage)(nil)
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), "reports")

	ls, err := storage.NewLocalStorage(basePath)

	require.NoError(t, err)
	assert.NotNil(t, ls)

	info, err := os.Stat(basePath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalStorage_UploadDownloadRoundtrip(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	testCases := []struct {
		name    string
		key     string
		content []byte
	}{
		{"nested report", "reports/all/2026-06-15/pipeline.xlsx", []byte("workbook")},
		{"empty file", "reports/empty.xlsx", []byte{}},
		{"large file", "reports/large.xlsx", bytes.Repeat([]byte("L"), 1024*100)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			size, err := ls.Upload(context.Background(), tc.key, xlsxContentType, bytes.NewReader(tc.content))
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.content)), size)

			reader, err := ls.Download(context.Background(), tc.key)
			require.NoError(t, err)
			defer reader.Close()

			downloaded, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, tc.content, downloaded)
		})
	}
}

func TestLocalStorage_UploadReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	ls, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	key := "reports/all/2026-06-15/pipeline.xlsx"
	_, err = ls.Upload(context.Background(), key, xlsxContentType, bytes.NewReader([]byte("first run")))
	require.NoError(t, err)
	_, err = ls.Upload(context.Background(), key, xlsxContentType, bytes.NewReader([]byte("second")))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "reports", "all", "2026-06-15", "pipeline.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	entries, err := os.ReadDir(filepath.Join(dir, "reports", "all", "2026-06-15"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestLocalStorage_RejectsKeysOutsideRoot(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../escape.xlsx", "reports/../../escape.xlsx", `reports\x.xlsx`} {
		t.Run(key, func(t *testing.T) {
			_, err := ls.Upload(context.Background(), key, xlsxContentType, bytes.NewReader(nil))
			assert.True(t, errors.Is(err, storage.ErrInvalidKey))

			_, err = ls.Download(context.Background(), key)
			assert.True(t, errors.Is(err, storage.ErrInvalidKey))
		})
	}
}

func TestLocalStorage_UploadCancelled(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ls.Upload(ctx, "reports/x.xlsx", xlsxContentType, bytes.NewReader([]byte("x")))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLocalStorage_Download_FileNotFound(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	reader, err := ls.Download(context.Background(), "reports/missing.xlsx")

	assert.Nil(t, reader)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLocalStorage_Delete_Idempotent(t *testing.T) {
	dir := t.TempDir()
	ls, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	key := "reports/delete-me.xlsx"
	_, err = ls.Upload(context.Background(), key, xlsxContentType, bytes.NewReader([]byte("delete me twice")))
	require.NoError(t, err)

	require.NoError(t, ls.Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(dir, "reports", "delete-me.xlsx"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ls.Delete(context.Background(), key))
}

func TestNewStorage(t *testing.T) {
	t.Run("local mode", func(t *testing.T) {
		s, err := storage.NewStorage(&config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &storage.LocalStorage{}, s)
	})

	t.Run("azure mode requires connection string", func(t *testing.T) {
		_, err := storage.NewStorage(&config.StorageConfig{Mode: "azure", CloudContainer: "reports"}, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("unsupported mode", func(t *testing.T) {
		_, err := storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, zap.NewNop())
		assert.Error(t, err)
	})
}
