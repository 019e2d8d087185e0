package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/leaderboard"
	"rating-tracker/internal/models"
	"rating-tracker/internal/repository/memory"
	"rating-tracker/internal/users"
)

type stubBatchRefresher struct {
	calls int
	err   error
}

func (s *stubBatchRefresher) RefreshAll(context.Context) error {
	s.calls++
	return s.err
}

type noopUserRefresher struct{}

func (noopUserRefresher) RefreshUser(context.Context, string) error { return nil }

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func newTestServer(t *testing.T, refresher *stubBatchRefresher, pingers map[string]Pinger) (*Server, *memory.UserRepository) {
	t.Helper()
	log := logger.NewTestLogger(t)
	repo := memory.NewUserRepository()
	return New(Options{
		Port:        0,
		CronSecret:  "test-secret",
		Logger:      log,
		Refresher:   refresher,
		Users:       users.NewService(repo, noopUserRefresher{}, log),
		Leaderboard: leaderboard.NewService(repo, nil, log),
		Pingers:     pingers,
	}), repo
}

func doRequest(t *testing.T, srv *Server, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestCron_RejectsMissingOrWrongBearer(t *testing.T) {
	refresher := &stubBatchRefresher{}
	srv, _ := newTestServer(t, refresher, nil)

	tests := []struct {
		name   string
		header http.Header
	}{
		{"no header", nil},
		{"wrong secret", http.Header{"Authorization": {"Bearer wrong"}}},
		{"wrong scheme", http.Header{"Authorization": {"Basic test-secret"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, "/api/cron", "", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	assert.Zero(t, refresher.calls)
}

func TestCron_AcknowledgesEvenWhenBatchErrors(t *testing.T) {
	refresher := &stubBatchRefresher{err: fmt.Errorf("store offline")}
	srv, _ := newTestServer(t, refresher, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/cron", "",
		http.Header{"Authorization": {"Bearer test-secret"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, refresher.calls)

	var resp cronResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "Users rating updated", resp.Message)
}

func TestCreateUser_CreatedThenUpdated(t *testing.T) {
	srv, _ := newTestServer(t, &stubBatchRefresher{}, nil)

	body := `{"name":"Ada","email":"ada@example.com","codeforcesHandle":"ada_cf"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/users", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "none", created.LeetcodeHandle)

	rec = doRequest(t, srv, http.MethodPost, "/api/users", `{"name":"Ada L","email":"ada@example.com"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUser_InvalidPayload(t *testing.T) {
	srv, _ := newTestServer(t, &stubBatchRefresher{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"name":`},
		{"missing email", `{"name":"Ada"}`},
		{"bad email", `{"name":"Ada","email":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/users", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_FAILED", resp.Error)
		})
	}
}

func TestGetUser_FoundAndNotFound(t *testing.T) {
	srv, repo := newTestServer(t, &stubBatchRefresher{}, nil)
	require.NoError(t, repo.Create(context.Background(), &models.User{
		ID:    "u1",
		Name:  "Stored",
		Email: "stored@example.com",
	}))

	rec := doRequest(t, srv, http.MethodGet, "/api/users/u1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Stored", user.Name)

	rec = doRequest(t, srv, http.MethodGet, "/api/users/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaderboard_EmptyEncodesAsArray(t *testing.T) {
	srv, _ := newTestServer(t, &stubBatchRefresher{}, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/leaderboard", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestLeaderboard_OrderedByTotalScore(t *testing.T) {
	srv, repo := newTestServer(t, &stubBatchRefresher{}, nil)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.User{ID: "low", Name: "Low", Email: "l@example.com", Snapshot: models.RatingSnapshot{TotalScore: 10}}))
	require.NoError(t, repo.Create(ctx, &models.User{ID: "top", Name: "Top", Email: "t@example.com", Snapshot: models.RatingSnapshot{TotalScore: 500}}))

	rec := doRequest(t, srv, http.MethodGet, "/api/leaderboard", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var board []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	require.Len(t, board, 2)
	assert.Equal(t, "top", board[0].ID)
}

func TestHealth_ReportsComponentStatus(t *testing.T) {
	t.Run("all up", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubBatchRefresher{}, map[string]Pinger{
			"postgres": stubPinger{},
			"redis":    stubPinger{},
		})

		rec := doRequest(t, srv, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("one down", func(t *testing.T) {
		srv, _ := newTestServer(t, &stubBatchRefresher{}, map[string]Pinger{
			"postgres": stubPinger{},
			"redis":    stubPinger{err: fmt.Errorf("connection refused")},
		})

		rec := doRequest(t, srv, http.MethodGet, "/healthz", "", nil)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp struct {
			Components map[string]string `json:"components"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "up", resp.Components["postgres"])
		assert.Equal(t, "down", resp.Components["redis"])
	})
}
