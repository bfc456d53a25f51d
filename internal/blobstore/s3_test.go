package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr         error
	putKey         string
	putBody        []byte
	putContentType string

	getRC  io.ReadCloser
	getErr error

	statInfo minio.ObjectInfo
	statErr  error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.putKey = key
	f.putBody = body
	f.putContentType = opts.ContentType
	return minio.UploadInfo{Key: key, Size: int64(len(body))}, nil
}

func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}

func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func TestNewS3Store_BucketExists(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	s, err := newS3StoreWithAPI(context.Background(), api, "assets", "")
	require.NoError(t, err)
	assert.Equal(t, "assets", s.bucket)
	assert.Empty(t, api.madeBucket)
}

func TestNewS3Store_CreatesBucket(t *testing.T) {
	api := &fakeMinio{bucketExists: false}
	_, err := newS3StoreWithAPI(context.Background(), api, "assets", "eu-central-1")
	require.NoError(t, err)
	assert.Equal(t, "assets", api.madeBucket)
}

func TestNewS3Store_Errors(t *testing.T) {
	_, err := newS3StoreWithAPI(context.Background(), &fakeMinio{bucketExistsErr: errors.New("boom")}, "b", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")

	_, err = newS3StoreWithAPI(context.Background(), &fakeMinio{makeBucketErr: errors.New("denied")}, "b", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket")
}

func TestS3Store_Put(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	s, err := newS3StoreWithAPI(context.Background(), api, "assets", "")
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "resumes/cv.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))
	assert.Equal(t, "resumes/cv.pdf", api.putKey)
	assert.Equal(t, []byte("%PDF"), api.putBody)
	assert.Equal(t, "application/pdf", api.putContentType)

	api.putErr = errors.New("quota")
	err = s.Put(context.Background(), "resumes/cv.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload object")

	assert.Error(t, s.Put(context.Background(), "../cv.pdf", strings.NewReader(""), 0, ""))
}

func TestS3Store_Get(t *testing.T) {
	modified := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	api := &fakeMinio{
		bucketExists: true,
		statInfo:     minio.ObjectInfo{Size: 3, ContentType: "image/gif", LastModified: modified},
		getRC:        io.NopCloser(bytes.NewReader([]byte("GIF"))),
	}
	s, err := newS3StoreWithAPI(context.Background(), api, "assets", "")
	require.NoError(t, err)

	obj, err := s.Get(context.Background(), "photos/a.gif")
	require.NoError(t, err)
	defer obj.Body.Close()

	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "GIF", string(body))
	assert.Equal(t, int64(3), obj.ContentLength)
	assert.Equal(t, "image/gif", obj.ContentType)
	assert.Equal(t, modified, obj.LastModified)
}

func TestS3Store_GetNotFound(t *testing.T) {
	api := &fakeMinio{
		bucketExists: true,
		statErr:      minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404},
	}
	s, err := newS3StoreWithAPI(context.Background(), api, "assets", "")
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "photos/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	api.statErr = errors.New("connection reset")
	_, err = s.Get(context.Background(), "photos/missing.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
