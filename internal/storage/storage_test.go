package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Dir(t *testing.T) {
	work := t.TempDir()
	tmp := t.TempDir()
	l := Local{WorkDir: work, TempRoot: tmp}

	dir, err := l.Dir(true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "downloads"), dir)

	dir, err = l.Dir(false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "brandcloud-mcp-images"), dir)
}

func TestLocal_WriteCreatesDirAndOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	l := Local{}

	path, err := l.Write(dir, "logo.png", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "logo.png"), path)

	path, err = l.Write(dir, "logo.png", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocal_WriteFailsWhenDirIsAFile(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "downloads")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := Local{}.Write(blocker, "a.png", []byte("data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create download dir")
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Mirror_Put(t *testing.T) {
	api := &fakePutter{}
	m := newS3Mirror(api, S3Config{Bucket: "assets", Prefix: "brandcloud/"}, nil)

	loc, err := m.Put(context.Background(), "/acme/logo.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "s3://assets/brandcloud/acme/logo.png", loc)
	assert.Equal(t, "assets", aws.ToString(api.input.Bucket))
	assert.Equal(t, "brandcloud/acme/logo.png", aws.ToString(api.input.Key))
	assert.Equal(t, "image/png", aws.ToString(api.input.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(api.input.ContentLength))
	assert.Equal(t, "png-bytes", string(api.body))
}

func TestS3Mirror_PutError(t *testing.T) {
	api := &fakePutter{err: errors.New("access denied")}
	m := newS3Mirror(api, S3Config{Bucket: "assets"}, nil)

	_, err := m.Put(context.Background(), "acme/logo.png", []byte("x"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3Config_Validate(t *testing.T) {
	assert.Error(t, S3Config{}.Validate())
	assert.NoError(t, S3Config{Bucket: "b"}.Validate())
}
