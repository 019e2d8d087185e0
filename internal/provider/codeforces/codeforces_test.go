package codeforces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rating-tracker/internal/common/config"
	"rating-tracker/internal/common/logger"
)

func testConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		BaseURL:    baseURL,
		MaxRetries: 2,
		Timeout:    2000,
		RetryDelay: 1,
	}
}

func newTestServer(t *testing.T, statusBody, ratingBody string, statusCode, ratingCode int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user.status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		w.Write([]byte(statusBody))
	})
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(ratingCode)
		w.Write([]byte(ratingBody))
	})
	return httptest.NewServer(mux)
}

func TestFetch_CountsDistinctSolvedProblems(t *testing.T) {
	statusBody := `{"status":"OK","result":[
		{"verdict":"OK","problem":{"contestId":1,"index":"A"}},
		{"verdict":"OK","problem":{"contestId":1,"index":"A"}},
		{"verdict":"WRONG_ANSWER","problem":{"contestId":2,"index":"B"}},
		{"verdict":"OK","problem":{"contestId":2,"index":"B"}},
		{"verdict":"OK","problem":{"contestId":1,"index":"B"}}
	]}`
	ratingBody := `{"status":"OK","result":[{"newRating":1200},{"newRating":1350}]}`

	srv := newTestServer(t, statusBody, ratingBody, http.StatusOK, http.StatusOK)
	defer srv.Close()

	c := New(testConfig(srv.URL), logger.NewTestLogger(t))
	partial, err := c.Fetch(context.Background(), "tourist")

	require.NoError(t, err)
	assert.True(t, partial.Present)
	assert.Equal(t, 3, partial.ProblemsSolved)
	assert.Equal(t, 1350, partial.Rating)
}

func TestFetch_DuplicateAcceptedSubmissionsCountOnce(t *testing.T) {
	statusBody := `{"status":"OK","result":[
		{"verdict":"OK","problem":{"contestId":1,"index":"A"}},
		{"verdict":"OK","problem":{"contestId":1,"index":"A"}},
		{"verdict":"WRONG_ANSWER","problem":{"contestId":2,"index":"B"}}
	]}`

	srv := newTestServer(t, statusBody, `{"status":"OK","result":[]}`, http.StatusOK, http.StatusOK)
	defer srv.Close()

	c := New(testConfig(srv.URL), logger.NewTestLogger(t))
	partial, err := c.Fetch(context.Background(), "someone")

	require.NoError(t, err)
	assert.Equal(t, 1, partial.ProblemsSolved)
}

func TestFetch_EmptyRatingHistoryMeansZero(t *testing.T) {
	srv := newTestServer(t,
		`{"status":"OK","result":[]}`,
		`{"status":"OK","result":[]}`,
		http.StatusOK, http.StatusOK)
	defer srv.Close()

	c := New(testConfig(srv.URL), logger.NewTestLogger(t))
	partial, err := c.Fetch(context.Background(), "newbie")

	require.NoError(t, err)
	assert.True(t, partial.Present)
	assert.Zero(t, partial.Rating)
	assert.Zero(t, partial.ProblemsSolved)
}

func TestFetch_OneEndpointFailingDoesNotBlockTheOther(t *testing.T) {
	ratingBody := `{"status":"OK","result":[{"newRating":1500}]}`

	srv := newTestServer(t, `oops`, ratingBody, http.StatusInternalServerError, http.StatusOK)
	defer srv.Close()

	c := New(testConfig(srv.URL), logger.NewTestLogger(t))
	partial, err := c.Fetch(context.Background(), "flaky")

	require.NoError(t, err)
	assert.True(t, partial.Present)
	assert.Equal(t, 1500, partial.Rating)
	assert.Zero(t, partial.ProblemsSolved)
}

func TestFetch_BothEndpointsFailing(t *testing.T) {
	srv := newTestServer(t, `down`, `down`, http.StatusBadGateway, http.StatusBadGateway)
	defer srv.Close()

	c := New(testConfig(srv.URL), logger.NewTestLogger(t))
	partial, err := c.Fetch(context.Background(), "unlucky")

	require.Error(t, err)
	assert.False(t, partial.Present)
	assert.Zero(t, partial.Rating)
	assert.Zero(t, partial.ProblemsSolved)
}

func TestFetch_MalformedStatusBodyTreatedAsAbsent(t *testing.T) {
	srv := newTestServer(t, `not json at all`, `{"status":"OK","result":[{"newRating":900}]}`, http.StatusOK, http.StatusOK)
	defer srv.Close()

	c := New(testConfig(srv.URL), logger.NewTestLogger(t))
	partial, err := c.Fetch(context.Background(), "weird")

	require.NoError(t, err)
	assert.Equal(t, 900, partial.Rating)
	assert.Zero(t, partial.ProblemsSolved)
}
