package datastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/UltimateTournament/backoff/v4"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/danthegoodman1/mstable/utils"
	"github.com/rs/zerolog"
)

type (
	S3DataStore struct {
		client     s3iface.S3API
		bucket     string
		downloader *s3manager.Downloader
		uploader   *s3manager.Uploader
		maxRetries uint64
		newBackOff func() backoff.BackOff
	}
)

func NewS3DataStore(ctx context.Context, bucket string) (*S3DataStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME must be set for the s3 data store")
	}
	s3Config := &aws.Config{
		Region:      aws.String(utils.AWS_DEFAULT_REGION),
		Credentials: credentials.NewEnvCredentials(),
	}
	if utils.S3_ENDPOINT != "" {
		s3Config.Endpoint = aws.String(utils.S3_ENDPOINT)
		s3Config.S3ForcePathStyle = aws.Bool(true)
	}

	s3Session, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("error making new session: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("bucket", bucket).Str("region", utils.AWS_DEFAULT_REGION).Msg("created s3 data store")

	return NewS3DataStoreWithClient(s3.New(s3Session), bucket), nil
}

// NewS3DataStoreWithClient uses an existing client, such as one pointed at a local S3 clone.
func NewS3DataStoreWithClient(client s3iface.S3API, bucket string) *S3DataStore {
	return &S3DataStore{
		client:     client,
		bucket:     bucket,
		downloader: s3manager.NewDownloaderWithClient(client),
		uploader:   s3manager.NewUploaderWithClient(client),
		maxRetries: uint64(utils.S3_MAX_RETRIES),
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
}

func (s *S3DataStore) key(p string) string {
	return strings.TrimPrefix(path.Join("/", p, tableFileName), "/")
}

// retry runs op with backoff until it succeeds, returns a permanent error, or runs out of tries.
func (s *S3DataStore) retry(ctx context.Context, op backoff.Operation) error {
	b := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.maxRetries), ctx)
	return backoff.Retry(func() error {
		err := op()
		if utils.IsPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

func isNotFound(err error) bool {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	var aerr awserr.Error
	return errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound")
}

func (s *S3DataStore) GetTableFile(ctx context.Context, p string) ([]byte, error) {
	ctx = logger.WithContext(ctx)
	logger := zerolog.Ctx(ctx)
	key := s.key(p)

	var b []byte
	start := time.Now()
	err := s.retry(ctx, func() error {
		_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if isNotFound(err) {
			return fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, key)
		}
		if err != nil {
			return fmt.Errorf("error in HeadObject: %w", err)
		}

		buf := &aws.WriteAtBuffer{}
		_, err = s.downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if isNotFound(err) {
			return fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, key)
		}
		if err != nil {
			return fmt.Errorf("error downloading from s3: %w", err)
		}
		b = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, err
	}

	d := time.Since(start)
	logger.Debug().Str("fileName", key).Int64("durationNS", d.Nanoseconds()).Str("durationHuman", d.String()).Msg("downloaded file from s3")
	return b, nil
}

func (s *S3DataStore) WriteTableFile(ctx context.Context, p string, b []byte) error {
	ctx = logger.WithContext(ctx)
	logger := zerolog.Ctx(ctx)
	key := s.key(p)

	start := time.Now()
	err := s.retry(ctx, func() error {
		_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(b),
			ContentType: aws.String("application/vnd.apache.parquet"),
		})
		if err != nil {
			return fmt.Errorf("error uploading to s3: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d := time.Since(start)
	logger.Debug().Str("fileName", key).Int64("durationNS", d.Nanoseconds()).Str("durationHuman", d.String()).Msg("uploaded file to s3")
	return nil
}

func (s *S3DataStore) Shutdown(context.Context) error {
	return nil
}
