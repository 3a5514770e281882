package datastore

import (
	"context"
	"fmt"

	"github.com/danthegoodman1/mstable/gologger"
	"github.com/danthegoodman1/mstable/utils"
)

var (
	logger = gologger.NewLogger()

	// ErrNotFound is returned when no table file exists at the path. It is permanent, retrying
	// will not make the file appear.
	ErrNotFound = utils.PermError("table file not found")
)

// tableFileName is the object holding a table, under the table's path.
const tableFileName = "table.parquet"

type (
	DataStore interface {
		// GetTableFile reads the whole table file at path
		GetTableFile(ctx context.Context, path string) ([]byte, error)
		// WriteTableFile replaces the table file at path
		WriteTableFile(ctx context.Context, path string, b []byte) error

		Shutdown(ctx context.Context) error
	}
)

// FromEnv builds the store selected by the DATASTORE env var.
func FromEnv(ctx context.Context) (DataStore, error) {
	switch utils.DATASTORE {
	case "disk":
		return NewDiskDataStore(utils.TABLE_ROOT)
	case "s3":
		return NewS3DataStore(ctx, utils.S3_BUCKET_NAME)
	default:
		return nil, fmt.Errorf("unknown DATASTORE %q, expected disk or s3", utils.DATASTORE)
	}
}
