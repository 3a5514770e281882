package tablestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/danthegoodman1/mstable/datastore"
	"github.com/danthegoodman1/mstable/gologger"
	"github.com/danthegoodman1/mstable/table"
	"github.com/rs/zerolog"
	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

var logger = gologger.NewLogger()

// Footer metadata keys.
const (
	descKey = "mstable.desc"
	nrowKey = "mstable.nrow"
)

// Open loads the table stored at path. A missing table wraps table.ErrTableNoFile.
func Open(ctx context.Context, ds datastore.DataStore, path string) (*table.Table, error) {
	logger := zerolog.Ctx(ctx)
	s := time.Now()
	b, err := ds.GetTableFile(ctx, path)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s: %w", table.ErrTableNoFile, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("error in GetTableFile: %w", err)
	}
	t, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("error decoding table %s: %w", path, err)
	}
	d := time.Since(s)
	logger.Debug().Str("path", path).Int("nrow", t.NRow()).Int("columns", len(t.Desc().Columns)).Int64("durationNS", d.Nanoseconds()).Str("durationHuman", d.String()).Msg("opened table")
	return t, nil
}

// Save writes t to path, replacing any table already there.
func Save(ctx context.Context, ds datastore.DataStore, path string, t *table.Table) error {
	b, err := Encode(t)
	if err != nil {
		return fmt.Errorf("error encoding table %s: %w", path, err)
	}
	if err := ds.WriteTableFile(ctx, path, b); err != nil {
		return fmt.Errorf("error in WriteTableFile: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(b)).Msg("saved table")
	return nil
}

// Encode renders t as a snappy-compressed parquet file.
func Encode(t *table.Table) ([]byte, error) {
	desc := t.Desc()
	var recs []cellRecord
	for _, cd := range desc.Columns {
		var (
			cr  []cellRecord
			err error
		)
		switch cd.Type {
		case table.Bool:
			cr, err = encodeColumn[bool](t, cd)
		case table.Int32:
			cr, err = encodeColumn[int32](t, cd)
		case table.Float32:
			cr, err = encodeColumn[float32](t, cd)
		case table.Float64:
			cr, err = encodeColumn[float64](t, cd)
		case table.Complex64:
			cr, err = encodeColumn[complex64](t, cd)
		}
		if err != nil {
			return nil, fmt.Errorf("error encoding column %q: %w", cd.Name, err)
		}
		recs = append(recs, cr...)
	}

	descJSON, err := json.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("error in json.Marshal: %w", err)
	}
	return writeFile(recs, map[string]string{
		descKey: string(descJSON),
		nrowKey: strconv.Itoa(t.NRow()),
	})
}

// writeFile writes recs as a parquet file with meta in the footer.
func writeFile(recs []cellRecord, meta map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	pw, err := writer.NewParquetWriterFromWriter(&buf, new(cellRecord), 1)
	if err != nil {
		return nil, fmt.Errorf("error in NewParquetWriterFromWriter: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, rec := range recs {
		if err := pw.Write(rec); err != nil {
			return nil, fmt.Errorf("error writing parquet row: %w", err)
		}
	}
	if err := pw.Flush(true); err != nil {
		return nil, fmt.Errorf("error flushing parquet writer: %w", err)
	}
	pw.Footer.KeyValueMetadata = make([]*parquet.KeyValue, 0, len(meta))
	for _, k := range []string{descKey, nrowKey} {
		if v, ok := meta[k]; ok {
			pw.Footer.KeyValueMetadata = append(pw.Footer.KeyValueMetadata, keyValue(k, v))
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("error in WriteStop: %w", err)
	}
	return buf.Bytes(), nil
}

func keyValue(k, v string) *parquet.KeyValue {
	kv := parquet.NewKeyValue()
	kv.Key, kv.Value = k, &v
	return kv
}

// Decode parses a file written by Encode.
func Decode(b []byte) (*table.Table, error) {
	pf, err := buffer.NewBufferFile(b)
	if err != nil {
		return nil, fmt.Errorf("error in NewBufferFile: %w", err)
	}
	pr, err := reader.NewParquetReader(pf, new(cellRecord), 1)
	if err != nil {
		return nil, fmt.Errorf("error in NewParquetReader: %w", err)
	}
	defer pr.ReadStop()

	meta := make(map[string]string)
	for _, kv := range pr.Footer.KeyValueMetadata {
		if kv != nil && kv.Value != nil {
			meta[kv.Key] = *kv.Value
		}
	}
	rawDesc, ok := meta[descKey]
	if !ok {
		return nil, fmt.Errorf("%w: no %s in file metadata", table.ErrInvalidDesc, descKey)
	}
	var desc table.TableDesc
	if err := json.Unmarshal([]byte(rawDesc), &desc); err != nil {
		return nil, fmt.Errorf("%w: %s", table.ErrInvalidDesc, err)
	}
	nrow, err := strconv.Atoi(meta[nrowKey])
	if err != nil {
		return nil, fmt.Errorf("%w: bad %s: %s", table.ErrInvalidDesc, nrowKey, err)
	}
	t, err := table.New(desc, nrow)
	if err != nil {
		return nil, err
	}

	recs := make([]cellRecord, pr.GetNumRows())
	if err := pr.Read(&recs); err != nil {
		return nil, fmt.Errorf("error reading parquet rows: %w", err)
	}
	for _, rec := range recs {
		cd, ok := desc.Column(rec.Column)
		if !ok {
			return nil, fmt.Errorf("%w: %q in file rows", table.ErrNoSuchColumn, rec.Column)
		}
		switch cd.Type {
		case table.Bool:
			err = decodeRecord[bool](t, cd, rec)
		case table.Int32:
			err = decodeRecord[int32](t, cd, rec)
		case table.Float32:
			err = decodeRecord[float32](t, cd, rec)
		case table.Float64:
			err = decodeRecord[float64](t, cd, rec)
		case table.Complex64:
			err = decodeRecord[complex64](t, cd, rec)
		}
		if err != nil {
			return nil, fmt.Errorf("error decoding column %q: %w", rec.Column, err)
		}
	}
	logger.Debug().Str("table", desc.Name).Int("records", len(recs)).Msg("decoded table")
	return t, nil
}
