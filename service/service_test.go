package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-gallery-service/entity"
	"github.com/tnqbao/gau-gallery-service/infra"
	"github.com/tnqbao/gau-gallery-service/repository"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type memoryRepository struct {
	mu       sync.Mutex
	files    map[string]*entity.UploadedFile
	shortBy  int
	failWith error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{files: map[string]*entity.UploadedFile{}}
}

func (r *memoryRepository) CreateMany(_ context.Context, files []*entity.UploadedFile) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	n := len(files) - r.shortBy
	for _, f := range files[:n] {
		f.ID = uuid.NewString()
		copied := *f
		r.files[f.ID] = &copied
	}
	return n, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*entity.UploadedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.files, id)
	return nil
}

func (r *memoryRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

type recordingPublisher struct {
	mu       sync.Mutex
	uploaded [][]string
	deleted  []string
	swept    []int
}

func (p *recordingPublisher) PublishImagesUploaded(_ context.Context, paths []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uploaded = append(p.uploaded, paths)
	return nil
}

func (p *recordingPublisher) PublishImageDeleted(_ context.Context, id, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
	return nil
}

func (p *recordingPublisher) PublishCacheSwept(_ context.Context, pruned int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.swept = append(p.swept, pruned)
	return nil
}

type failingBlobs struct {
	infra.BlobStorage
}

func (failingBlobs) List(context.Context) ([]string, error) {
	return nil, errors.New("disk gone")
}

type fixture struct {
	svc    *Service
	blobs  *infra.LocalBlobStore
	repo   *memoryRepository
	cache  *infra.RedisClient
	events *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := infra.NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "validFiles")
	t.Cleanup(func() { _ = cache.Close() })

	blobs, err := infra.NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	clock := time.UnixMilli(1718000000000)
	var mu sync.Mutex
	tick := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Millisecond)
		return clock
	}

	repo := newMemoryRepository()
	events := &recordingPublisher{}
	svc := NewService(blobs, repo, cache, testLogger(), Settings{
		URLPrefix:   "/uploads",
		MaxFiles:    10,
		MaxFileSize: 1 << 20,
	}, WithClock(tick), WithEventPublisher(events))

	return &fixture{svc: svc, blobs: blobs, repo: repo, cache: cache, events: events}
}

func testLogger() *infra.LoggerClient {
	return infra.NewLoggerClient(slog.NewTextHandler(io.Discard, nil))
}

func (f *fixture) writeBlob(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.blobs.Root(), name), []byte(content), 0o644))
}

func (f *fixture) cached(t *testing.T) []string {
	t.Helper()
	paths, err := f.cache.ListPaths(context.Background())
	require.NoError(t, err)
	return paths
}

func input(name, content string) UploadInput {
	return UploadInput{
		OriginalName: name,
		Size:         int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestReconcilePrunesGhosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.writeBlob(t, "a.png", "a")
	f.writeBlob(t, "b.JPG", "b")
	f.writeBlob(t, "notes.txt", "n")
	for _, p := range []string{"/uploads/a.png", "/uploads/gone.png", "/uploads/notes.txt", "/uploads/gone.png"} {
		require.NoError(t, f.cache.AppendPath(ctx, p))
	}

	valid, err := f.svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.JPG"}, valid)
	assert.Equal(t, []string{"/uploads/a.png"}, f.cached(t))

	again, err := f.svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, valid, again)
	assert.Equal(t, []string{"/uploads/a.png"}, f.cached(t))
}

func TestReconcileEmptyIsNotNil(t *testing.T) {
	f := newFixture(t)

	valid, err := f.svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, valid)
	assert.Empty(t, valid)
}

func TestReconcileWrapsStoreErrors(t *testing.T) {
	f := newFixture(t)
	svc := NewService(failingBlobs{}, f.repo, f.cache, testLogger(), Settings{})

	_, err := svc.Reconcile(context.Background())
	assert.ErrorIs(t, err, ErrReconciliationFailed)
}

func TestUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Upload(ctx, []UploadInput{
		input("photo.png", "\x89PNG\r\n\x1a\nfake"),
		input("Holiday.JPEG", "jpeg bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/uploads/1718000000001.png", "/uploads/1718000000002.jpeg"}, result.Files)
	assert.ElementsMatch(t, result.Files, result.AllImages)
	assert.Equal(t, result.Files, f.cached(t))
	assert.Equal(t, 2, f.repo.count())

	data, err := os.ReadFile(filepath.Join(f.blobs.Root(), "1718000000001.png"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG\r\n\x1a\nfake", string(data))

	for _, record := range f.repo.files {
		if record.OriginalName == "photo.png" {
			assert.Equal(t, "1718000000001.png", record.FileName)
			assert.Equal(t, "/uploads/1718000000001.png", record.FilePath)
			assert.Equal(t, "image/png", record.ContentType)
			assert.False(t, record.FileCreationTime.IsZero())
		}
	}
	require.Len(t, f.events.uploaded, 1)
	assert.Equal(t, result.Files, f.events.uploaded[0])
}

func TestUploadThenListContainsAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inputs := make([]UploadInput, 5)
	for i := range inputs {
		inputs[i] = input(fmt.Sprintf("img%d.gif", i), "GIF89a")
	}
	result, err := f.svc.Upload(ctx, inputs)
	require.NoError(t, err)

	listed, err := f.svc.Reconcile(ctx)
	require.NoError(t, err)
	for _, p := range result.Files {
		assert.Contains(t, listed, p)
	}
}

func TestUploadValidation(t *testing.T) {
	tooMany := make([]UploadInput, 11)
	for i := range tooMany {
		tooMany[i] = input(fmt.Sprintf("%d.png", i), "x")
	}
	big := input("big.png", "x")
	big.Size = 2 << 20

	tests := []struct {
		name   string
		inputs []UploadInput
		want   error
	}{
		{"no files", nil, ErrNoFilesProvided},
		{"too many", tooMany, ErrTooManyFiles},
		{"unsupported", []UploadInput{input("a.png", "x"), input("notes.txt", "x")}, ErrUnsupportedFileType},
		{"too large", []UploadInput{big}, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Upload(context.Background(), tt.inputs)
			assert.ErrorIs(t, err, tt.want)

			names, err := f.blobs.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, names)
			assert.Zero(t, f.repo.count())
		})
	}
}

func TestUploadPartialInsert(t *testing.T) {
	f := newFixture(t)
	f.repo.shortBy = 1

	_, err := f.svc.Upload(context.Background(), []UploadInput{input("a.png", "a"), input("b.png", "b")})
	require.Error(t, err)

	var partial *PartialInsertError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Inserted)
	assert.Equal(t, 2, partial.Submitted)
	assert.ErrorIs(t, err, ErrPartialInsert)

	names, err := f.blobs.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Empty(t, f.cached(t))
}

func TestUploadStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.failWith = errors.New("connection reset")

	_, err := f.svc.Upload(context.Background(), []UploadInput{input("a.png", "a")})
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Upload(ctx, []UploadInput{input("a.png", "a"), input("b.png", "b")})
	require.NoError(t, err)
	require.NoError(t, f.cache.AppendPath(ctx, result.Files[0]))

	var id string
	for key, record := range f.repo.files {
		if record.FilePath == result.Files[0] {
			id = key
		}
	}
	require.NotEmpty(t, id)

	deleted, err := f.svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, result.Files[0], deleted.FilePath)

	assert.NoFileExists(t, filepath.Join(f.blobs.Root(), deleted.FileName))
	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, []string{result.Files[1]}, f.cached(t))
	assert.Equal(t, []string{id}, f.events.deleted)
}

func TestDeleteUnknownLeavesStoresUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Upload(ctx, []UploadInput{input("a.png", "a")})
	require.NoError(t, err)

	for _, id := range []string{uuid.NewString(), "not-an-id"} {
		_, err := f.svc.Delete(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, result.Files, f.cached(t))
	names, err := f.blobs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestDeleteToleratesMissingBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, []UploadInput{input("a.png", "a")})
	require.NoError(t, err)

	var record *entity.UploadedFile
	for _, r := range f.repo.files {
		record = r
	}
	require.NoError(t, os.Remove(filepath.Join(f.blobs.Root(), record.FileName)))

	_, err = f.svc.Delete(ctx, record.ID)
	require.NoError(t, err)
	assert.Zero(t, f.repo.count())
	assert.Empty(t, f.cached(t))
}

func TestArchive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.writeBlob(t, "1.png", "first image")
	f.writeBlob(t, "2.webp", strings.Repeat("second image ", 100))
	f.writeBlob(t, "readme.md", "skip me")

	paths, err := f.svc.ArchivePaths(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.WriteArchive(ctx, &buf, paths))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	contents := map[string]string{}
	var names []string
	for _, file := range zr.File {
		assert.Equal(t, zip.Deflate, file.Method)
		rc, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		names = append(names, file.Name)
		contents[file.Name] = string(data)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"1.png", "2.webp"}, names)
	assert.Equal(t, "first image", contents["1.png"])
}

func TestArchiveNothingToDownload(t *testing.T) {
	f := newFixture(t)
	f.writeBlob(t, "notes.txt", "not an image")

	_, err := f.svc.ArchivePaths(context.Background())
	assert.ErrorIs(t, err, ErrNothingToDownload)
}

func TestSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.writeBlob(t, "keep.png", "k")
	require.NoError(t, f.cache.AppendPath(ctx, "/uploads/keep.png"))
	require.NoError(t, f.cache.AppendPath(ctx, "/uploads/ghost.png"))
	require.NoError(t, f.cache.AppendPath(ctx, "/uploads/ghost.png"))

	result, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Valid: 1, Pruned: 2}, result)
	assert.Equal(t, []int{2}, f.events.swept)

	result, err = f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Valid: 1, Pruned: 0}, result)
	assert.Len(t, f.events.swept, 1)
}

func TestBlobName(t *testing.T) {
	at := time.UnixMilli(1718000000123)
	assert.Equal(t, "1718000000123.png", BlobName(at, "photo.png"))
	assert.Equal(t, "1718000000123.jpg", BlobName(at, "PHOTO.JPG"))
	assert.True(t, IsSupportedImage("x.JFIF"))
	assert.False(t, IsSupportedImage("x.svg"))
}

func TestUploadSniffsContentType(t *testing.T) {
	f := newFixture(t)

	webp := "RIFF\x24\x00\x00\x00WEBPVP8 " + strings.Repeat("\x00", 32)
	declared := input("holiday.webp", "whatever the client says")
	declared.ContentType = "image/jpeg"

	_, err := f.svc.Upload(context.Background(), []UploadInput{input("cat.webp", webp), declared})
	require.NoError(t, err)

	types := map[string]string{}
	for _, record := range f.repo.files {
		types[record.OriginalName] = record.ContentType
	}
	assert.Equal(t, "image/webp", types["cat.webp"])
	assert.Equal(t, "image/jpeg", types["holiday.webp"])

	data, err := os.ReadFile(filepath.Join(f.blobs.Root(), "1718000000001.webp"))
	require.NoError(t, err)
	assert.Equal(t, webp, string(data))
}

func uploadedCount(t *testing.T, reader *sdkmetric.ManualReader) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "gallery.images.uploaded" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestUploadMetricCountsOnlyRecordedFiles(t *testing.T) {
	f := newFixture(t)
	reader := sdkmetric.NewManualReader()
	metrics, err := infra.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)
	var tick int64
	clock := func() time.Time {
		tick++
		return time.UnixMilli(1718100000000 + tick)
	}
	svc := NewService(f.blobs, f.repo, f.cache, testLogger(), f.svc.Settings(), WithMetrics(metrics), WithClock(clock))
	ctx := context.Background()

	f.repo.shortBy = 1
	_, err = svc.Upload(ctx, []UploadInput{input("a.png", "a"), input("b.png", "b")})
	require.Error(t, err)
	assert.Zero(t, uploadedCount(t, reader))

	f.repo.shortBy = 0
	f.repo.failWith = errors.New("connection reset")
	_, err = svc.Upload(ctx, []UploadInput{input("c.png", "c")})
	require.Error(t, err)
	assert.Zero(t, uploadedCount(t, reader))

	f.repo.failWith = nil
	_, err = svc.Upload(ctx, []UploadInput{input("d.png", "d"), input("e.png", "e")})
	require.NoError(t, err)
	assert.EqualValues(t, 2, uploadedCount(t, reader))
}
