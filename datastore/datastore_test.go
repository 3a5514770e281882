package datastore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/UltimateTournament/backoff/v4"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/danthegoodman1/mstable/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskDataStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	ds, err := NewDiskDataStore(root)
	require.NoError(t, err)

	_, err = ds.GetTableFile(ctx, "obs/MAIN")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, utils.IsPermanent(err))

	require.NoError(t, ds.WriteTableFile(ctx, "obs/MAIN", []byte("first")))
	require.NoError(t, ds.WriteTableFile(ctx, "obs/MAIN", []byte("second")))

	b, err := ds.GetTableFile(ctx, "obs/MAIN")
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	entries, err := os.ReadDir(filepath.Join(root, "obs", "MAIN"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, tableFileName, entries[0].Name())

	// paths cannot climb out of the root
	require.NoError(t, ds.WriteTableFile(ctx, "../../escape", []byte("x")))
	_, err = os.Stat(filepath.Join(root, "escape", tableFileName))
	assert.NoError(t, err)

	assert.NoError(t, ds.Shutdown(ctx))
}

func TestNewDiskDataStoreNeedsRoot(t *testing.T) {
	_, err := NewDiskDataStore("")
	assert.Error(t, err)
}

type fakeS3 struct {
	s3iface.S3API
	objects   map[string][]byte
	headFails int
	heads     int
}

func (f *fakeS3) HeadObjectWithContext(_ aws.Context, in *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	f.heads++
	if f.headFails > 0 {
		f.headFails--
		return nil, awserr.NewRequestFailure(awserr.New("InternalError", "try again", nil), http.StatusInternalServerError, "req")
	}
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, awserr.NewRequestFailure(awserr.New("NotFound", "Not Found", nil), http.StatusNotFound, "req")
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(b)))}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, awserr.NewRequestFailure(awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil), http.StatusNotFound, "req")
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(b)),
		ContentLength: aws.Int64(int64(len(b))),
	}, nil
}

func newTestS3Store(f *fakeS3) *S3DataStore {
	s := NewS3DataStoreWithClient(f, "tables")
	s.maxRetries = 3
	s.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return s
}

func TestS3DataStoreGet(t *testing.T) {
	ctx := context.Background()
	f := &fakeS3{objects: map[string][]byte{"obs/MAIN/table.parquet": []byte("parquet bytes")}}
	s := newTestS3Store(f)

	b, err := s.GetTableFile(ctx, "/obs/MAIN")
	require.NoError(t, err)
	assert.Equal(t, "parquet bytes", string(b))
}

func TestS3DataStoreNotFound(t *testing.T) {
	ctx := context.Background()
	f := &fakeS3{objects: map[string][]byte{}}
	s := newTestS3Store(f)

	_, err := s.GetTableFile(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, f.heads, "not found must not be retried")
}

func TestS3DataStoreRetries(t *testing.T) {
	ctx := context.Background()
	f := &fakeS3{objects: map[string][]byte{"t/table.parquet": []byte("ok")}, headFails: 2}
	s := newTestS3Store(f)

	b, err := s.GetTableFile(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(b))
	assert.Equal(t, 3, f.heads)

	f.headFails = 10
	_, err = s.GetTableFile(ctx, "t")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestS3Key(t *testing.T) {
	s := newTestS3Store(&fakeS3{})
	assert.Equal(t, "a/b/table.parquet", s.key("a/b"))
	assert.Equal(t, "a/table.parquet", s.key("/a/"))
}
