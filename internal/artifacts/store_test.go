package artifacts

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perivale/classify-api/internal/config"
)

// fakeDownloader serves objects from a map keyed by "bucket/key".
type fakeDownloader struct {
	objects map[string][]byte
	calls   []string
}

func (f *fakeDownloader) Download(_ context.Context, w io.WriterAt, input *s3.GetObjectInput, _ ...func(*manager.Downloader)) (int64, error) {
	key := *input.Bucket + "/" + *input.Key
	f.calls = append(f.calls, key)
	data, ok := f.objects[key]
	if !ok {
		return 0, errors.New("NoSuchKey")
	}
	n, err := w.WriteAt(data, 0)
	return int64(n), err
}

func testArtifacts() config.Artifacts {
	return config.Artifacts{
		Bucket:   "models-bucket",
		Prefix:   "squeezenet/v1.1",
		Weights:  "model.onnx",
		Metadata: "model_metadata.json",
		Labels:   "synset.txt",
	}
}

func TestFetchDownloadsAllThree(t *testing.T) {
	dl := &fakeDownloader{objects: map[string][]byte{
		"models-bucket/squeezenet/v1.1/model.onnx":          []byte("weights"),
		"models-bucket/squeezenet/v1.1/model_metadata.json": []byte("{}"),
		"models-bucket/squeezenet/v1.1/synset.txt":          []byte("n01440764 tench\n"),
	}}
	dir := t.TempDir()

	p, err := NewStore(dl, testArtifacts(), dir).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "model.onnx"), p.Weights)
	assert.Equal(t, filepath.Join(dir, "model_metadata.json"), p.Metadata)
	assert.Equal(t, filepath.Join(dir, "synset.txt"), p.Labels)
	assert.Len(t, dl.calls, 3)

	got, err := os.ReadFile(p.Labels)
	require.NoError(t, err)
	assert.Equal(t, "n01440764 tench\n", string(got))
}

func TestFetchSkipsCachedFiles(t *testing.T) {
	dl := &fakeDownloader{objects: map[string][]byte{
		"models-bucket/squeezenet/v1.1/model_metadata.json": []byte("{}"),
		"models-bucket/squeezenet/v1.1/synset.txt":          []byte("a\n"),
	}}
	dir := t.TempDir()
	// Weights already on disk from a previous invocation in this environment.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.onnx"), []byte("weights"), 0o644))

	_, err := NewStore(dl, testArtifacts(), dir).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, dl.calls, 2)
	for _, c := range dl.calls {
		assert.NotContains(t, c, "model.onnx")
	}
}

func TestFetchMissingObjectFails(t *testing.T) {
	dl := &fakeDownloader{objects: map[string][]byte{
		"models-bucket/squeezenet/v1.1/model.onnx": []byte("weights"),
	}}
	dir := t.TempDir()

	_, err := NewStore(dl, testArtifacts(), dir).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model_metadata.json")

	// A failed download must not leave a truncated file behind to be
	// mistaken for a cached artifact next time.
	_, statErr := os.Stat(filepath.Join(dir, "model_metadata.json"))
	assert.True(t, os.IsNotExist(statErr))
}
