package datastore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/danthegoodman1/mstable/utils"
	"github.com/rs/zerolog"
)

type (
	DiskDataStore struct {
		rootPath string
	}
)

func NewDiskDataStore(rootPath string) (*DiskDataStore, error) {
	if rootPath == "" {
		return nil, fmt.Errorf("disk data store needs a root path")
	}
	dds := &DiskDataStore{
		rootPath: rootPath,
	}

	return dds, nil
}

func (dds *DiskDataStore) filePath(path string) string {
	return filepath.Join(dds.rootPath, filepath.Clean("/"+path), tableFileName)
}

func (dds *DiskDataStore) GetTableFile(ctx context.Context, path string) ([]byte, error) {
	p := dds.filePath(path)
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("error in os.ReadFile: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", p).Int("bytes", len(b)).Msg("read table file from disk")
	return b, nil
}

// WriteTableFile writes to a temp file next to the target and renames it over, so readers
// never see a partial table.
func (dds *DiskDataStore) WriteTableFile(ctx context.Context, path string, b []byte) error {
	p := dds.filePath(path)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("error in os.MkdirAll: %w", err)
	}
	tmp := p + ".tmp-" + utils.GenRandomShortID()
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("error in os.WriteFile: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error in os.Rename: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", p).Int("bytes", len(b)).Msg("wrote table file to disk")
	return nil
}

func (dds *DiskDataStore) Shutdown(context.Context) error {
	return nil
}
