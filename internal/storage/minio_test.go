package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mock.Mock
}

func (f *fakeClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := f.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (f *fakeClient) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return f.Called(ctx, bucket, opts).Error(0)
}

func (f *fakeClient) PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := f.Called(ctx, bucket, object, r, size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (f *fakeClient) StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := f.Called(ctx, bucket, object, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (f *fakeClient) GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error) {
	args := f.Called(ctx, bucket, object, opts)
	obj, _ := args.Get(0).(*minio.Object)
	return obj, args.Error(1)
}

func (f *fakeClient) RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error {
	return f.Called(ctx, bucket, object, opts).Error(0)
}

var noSuchKey = minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}

func TestNewBucketStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a missing bucket", func(t *testing.T) {
		cli := new(fakeClient)
		cli.On("BucketExists", ctx, "docs").Return(false, nil).Once()
		cli.On("MakeBucket", ctx, "docs", minio.MakeBucketOptions{}).Return(nil).Once()

		s, err := newBucketStorage(ctx, cli, "docs")
		require.NoError(t, err)
		assert.Equal(t, "docs", s.bucket)
		cli.AssertExpectations(t)
	})

	t.Run("reuses an existing bucket", func(t *testing.T) {
		cli := new(fakeClient)
		cli.On("BucketExists", ctx, "docs").Return(true, nil).Once()

		_, err := newBucketStorage(ctx, cli, "docs")
		require.NoError(t, err)
		cli.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		cli := new(fakeClient)
		cli.On("BucketExists", ctx, "docs").Return(false, errors.New("dial tcp: connection refused")).Once()

		_, err := newBucketStorage(ctx, cli, "docs")
		assert.ErrorContains(t, err, "check bucket docs")
	})
}

func TestBucketStorage_Put(t *testing.T) {
	ctx := context.Background()
	body := strings.NewReader("payload")
	meta := map[string]string{"original-filename": "a.pdf"}

	t.Run("happy path", func(t *testing.T) {
		cli := new(fakeClient)
		cli.On("PutObject", ctx, "docs", "documents/faculty/1", body, int64(7), minio.PutObjectOptions{
			ContentType:  "application/pdf",
			UserMetadata: meta,
		}).Return(minio.UploadInfo{Size: 7}, nil).Once()

		s := &bucketStorage{client: cli, bucket: "docs"}
		info, err := s.Put(ctx, "documents/faculty/1", body, PutObjectOptions{Size: 7, ContentType: "application/pdf", Metadata: meta})
		require.NoError(t, err)
		assert.Equal(t, int64(7), info.Size)
		assert.Equal(t, "documents/faculty/1", info.Key)
	})

	t.Run("short upload", func(t *testing.T) {
		cli := new(fakeClient)
		cli.On("PutObject", ctx, "docs", "k", body, int64(7), mock.Anything).Return(minio.UploadInfo{Size: 3}, nil).Once()

		s := &bucketStorage{client: cli, bucket: "docs"}
		_, err := s.Put(ctx, "k", body, PutObjectOptions{Size: 7})
		assert.ErrorContains(t, err, "short write")
	})
}

func TestBucketStorage_GetMissing(t *testing.T) {
	ctx := context.Background()
	cli := new(fakeClient)
	cli.On("StatObject", ctx, "docs", "k", minio.StatObjectOptions{}).Return(minio.ObjectInfo{}, noSuchKey).Once()

	s := &bucketStorage{client: cli, bucket: "docs"}
	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	cli.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBucketStorage_Delete(t *testing.T) {
	ctx := context.Background()

	cli := new(fakeClient)
	cli.On("RemoveObject", ctx, "docs", "gone", minio.RemoveObjectOptions{}).Return(noSuchKey).Once()
	cli.On("RemoveObject", ctx, "docs", "busy", minio.RemoveObjectOptions{}).Return(errors.New("503 slow down")).Once()

	s := &bucketStorage{client: cli, bucket: "docs"}
	assert.NoError(t, s.Delete(ctx, "gone"))
	assert.ErrorContains(t, s.Delete(ctx, "busy"), "delete busy")
}

func TestBucketStorage_Stat(t *testing.T) {
	ctx := context.Background()
	cli := new(fakeClient)
	cli.On("StatObject", ctx, "docs", "k", minio.StatObjectOptions{}).Return(minio.ObjectInfo{Key: "k", Size: 9, ContentType: "text/plain"}, nil).Once()
	cli.On("StatObject", ctx, "docs", "gone", minio.StatObjectOptions{}).Return(minio.ObjectInfo{}, noSuchKey).Once()

	s := &bucketStorage{client: cli, bucket: "docs"}
	info, err := s.Stat(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size)

	_, err = s.Stat(ctx, "gone")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
