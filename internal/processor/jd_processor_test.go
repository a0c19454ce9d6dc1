package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ats-filter-go/internal/constants"
	"ats-filter-go/internal/storage"
	"ats-filter-go/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJobStore struct {
	mock.Mock
}

func (m *mockJobStore) GetJobDescriptionText(ctx context.Context, jobID string) (string, error) {
	args := m.Called(ctx, jobID)
	return args.String(0), args.Error(1)
}

type fakePageFetcher struct {
	text  string
	err   error
	calls int
}

func (f *fakePageFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func newTestCache(t *testing.T) (*storage.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return storage.NewRedisFromClient(client), mr
}

func TestJDProcessor_InlineTextWins(t *testing.T) {
	store := new(mockJobStore)
	p := NewJDProcessor(WithJobStore(store))

	resolved, err := p.Resolve(context.Background(), JobDescriptionInput{Text: "Go developer", JobID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, "Go developer", resolved.Text)
	assert.Equal(t, JobSourceInline, resolved.Source)
	store.AssertNotCalled(t, "GetJobDescriptionText", mock.Anything, mock.Anything)
}

func TestJDProcessor_MissingInput(t *testing.T) {
	_, err := NewJDProcessor().Resolve(context.Background(), JobDescriptionInput{Text: "  ", JobID: " "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingJobDescription))
}

func TestJDProcessor_JobIDCachesDatabaseText(t *testing.T) {
	cache, mr := newTestCache(t)
	store := new(mockJobStore)
	store.On("GetJobDescriptionText", mock.Anything, "job-7").Return("Python developer with Docker", nil).Once()

	p := NewJDProcessor(WithJDCache(cache), WithJobStore(store))
	ctx := context.Background()

	first, err := p.Resolve(ctx, JobDescriptionInput{JobID: "job-7"})
	require.NoError(t, err)
	assert.Equal(t, JobSourceDatabase, first.Source)
	assert.Equal(t, "job-7", first.JobID)

	cached, err := mr.Get(fmt.Sprintf(constants.KeyJobDescriptionText, "job-7"))
	require.NoError(t, err)
	assert.Equal(t, "Python developer with Docker", cached)

	second, err := p.Resolve(ctx, JobDescriptionInput{JobID: "job-7"})
	require.NoError(t, err)
	assert.Equal(t, JobSourceCache, second.Source)
	assert.Equal(t, first.Text, second.Text)
	store.AssertNumberOfCalls(t, "GetJobDescriptionText", 1)
}

func TestJDProcessor_JobNotFound(t *testing.T) {
	store := new(mockJobStore)
	store.On("GetJobDescriptionText", mock.Anything, "ghost").Return("", storage.ErrRecordNotFound)

	_, err := NewJDProcessor(WithJobStore(store)).Resolve(context.Background(), JobDescriptionInput{JobID: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobNotFound))
	assert.Equal(t, CodeJobNotFound, ErrorCode(err))
}

func TestJDProcessor_JobStoreFailure(t *testing.T) {
	store := new(mockJobStore)
	store.On("GetJobDescriptionText", mock.Anything, "job-1").Return("", errors.New("dial tcp: connection refused"))

	_, err := NewJDProcessor(WithJobStore(store)).Resolve(context.Background(), JobDescriptionInput{JobID: "job-1"})
	assert.True(t, errors.Is(err, ErrJobLookupUnavailable))

	_, err = NewJDProcessor().Resolve(context.Background(), JobDescriptionInput{JobID: "job-1"})
	assert.True(t, errors.Is(err, ErrJobLookupUnavailable), "未配置数据源时按岗位ID查询不可用")
}

func TestJDProcessor_URLFetchAndCache(t *testing.T) {
	cache, mr := newTestCache(t)
	fetcher := &fakePageFetcher{text: "Senior Go engineer, Kubernetes"}
	p := NewJDProcessor(WithJDCache(cache), WithPageFetcher(fetcher))
	ctx := context.Background()
	jobURL := "https://jobs.example.com/123"

	first, err := p.Resolve(ctx, JobDescriptionInput{URL: jobURL})
	require.NoError(t, err)
	assert.Equal(t, JobSourceURL, first.Source)
	assert.Equal(t, jobURL, first.URL)
	assert.True(t, mr.Exists(fmt.Sprintf(constants.KeyJobDescriptionURL, utils.URLCacheKey(jobURL))))

	second, err := p.Resolve(ctx, JobDescriptionInput{URL: jobURL + "/"})
	require.NoError(t, err)
	assert.Equal(t, JobSourceURLCache, second.Source)
	assert.Equal(t, 1, fetcher.calls)
}

func TestJDProcessor_URLErrors(t *testing.T) {
	_, err := NewJDProcessor().Resolve(context.Background(), JobDescriptionInput{URL: "https://jobs.example.com/1"})
	assert.True(t, errors.Is(err, ErrURLFetchDisabled))

	failing := &fakePageFetcher{err: errors.New("received status code 503")}
	_, err = NewJDProcessor(WithPageFetcher(failing)).Resolve(context.Background(), JobDescriptionInput{URL: "https://jobs.example.com/1"})
	assert.True(t, errors.Is(err, ErrJDFetchFailed))

	invalid := &fakePageFetcher{err: fmt.Errorf("%w: %q", ErrInvalidJobURL, "ftp://x")}
	_, err = NewJDProcessor(WithPageFetcher(invalid)).Resolve(context.Background(), JobDescriptionInput{URL: "ftp://x"})
	assert.True(t, errors.Is(err, ErrInvalidJobURL))
	assert.Equal(t, CodeInvalidJobURL, ErrorCode(err))
}

func TestJDProcessor_JobIDFallsBackToURL(t *testing.T) {
	store := new(mockJobStore)
	store.On("GetJobDescriptionText", mock.Anything, "gone").Return("", storage.ErrRecordNotFound)
	fetcher := &fakePageFetcher{text: "Python developer"}

	resolved, err := NewJDProcessor(WithJobStore(store), WithPageFetcher(fetcher)).
		Resolve(context.Background(), JobDescriptionInput{JobID: "gone", URL: "https://jobs.example.com/gone"})
	require.NoError(t, err)
	assert.Equal(t, JobSourceURL, resolved.Source)
	assert.Equal(t, "gone", resolved.JobID)
	assert.Equal(t, 1, fetcher.calls)
}
