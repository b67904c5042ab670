package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/wardwatch/internal"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
	putErr  error
	puts    int
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_MissingObjectLoadsEmpty(t *testing.T) {
	s := newS3Store(newFakeObjects(), "ward", "", internal.NewNopLogger())
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "patients.json", s.key)
}

func TestS3Store_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	objects := newFakeObjects()
	s := newS3Store(objects, "ward", "icu/patients.json", internal.NewNopLogger())

	require.NoError(t, s.Save(ctx, samplePatients()))
	assert.Equal(t, 1, objects.puts)
	assert.Contains(t, objects.objects, "ward/icu/patients.json")

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestS3Store_CorruptObjectLoadsEmpty(t *testing.T) {
	objects := newFakeObjects()
	objects.objects["ward/patients.json"] = []byte("[1,2,3]")
	s := newS3Store(objects, "ward", "", internal.NewNopLogger())
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestS3Store_TransportErrorsPropagate(t *testing.T) {
	objects := newFakeObjects()
	objects.getErr = errors.New("connection refused")
	objects.putErr = errors.New("access denied")
	s := newS3Store(objects, "ward", "", internal.NewNopLogger())

	_, err := s.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, s.Save(context.Background(), samplePatients()))
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{}, internal.NewNopLogger())
	assert.Error(t, err)
}
