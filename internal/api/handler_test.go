package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qiniu/reviewsync/internal/issue"
	syncpkg "github.com/qiniu/reviewsync/internal/sync"
	"github.com/qiniu/reviewsync/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher 内存远端，避免测试访问真实 API
type fakeFetcher struct {
	records map[int]*models.Record
	batch   []*models.Record
	err     error
}

func (f *fakeFetcher) FetchRecord(ctx context.Context, number int) (*models.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.records[number]
	if !ok {
		return nil, fmt.Errorf("record #%d not found", number)
	}
	return record, nil
}

func (f *fakeFetcher) FetchRecords(ctx context.Context, filter models.RecordFilter) ([]*models.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.batch, nil
}

func newTestServer(t *testing.T, fetcher *fakeFetcher) (*httptest.Server, *syncpkg.Synchronizer) {
	t.Helper()
	build := func(record *models.Record) *issue.Issue {
		return issue.New(record, models.PhaseBugReporting, nil)
	}
	synchronizer := syncpkg.NewSynchronizer(fetcher, build, time.Hour, models.RecordFilter{State: "open"}, "rse-2026-s1")

	mux := http.NewServeMux()
	NewHandler(synchronizer).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, synchronizer
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t, &fakeFetcher{})

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["loading"])
}

func TestListIssuesSortedByNumber(t *testing.T) {
	fetcher := &fakeFetcher{batch: []*models.Record{
		{ID: 3, Number: 30, Title: "third"},
		{ID: 1, Number: 10, Title: "first"},
		{ID: 2, Number: 20, Title: "second"},
	}}
	server, synchronizer := newTestServer(t, fetcher)
	require.NoError(t, synchronizer.RefreshNow(context.Background()))

	resp, err := http.Get(server.URL + "/api/issues")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var issues []*issue.Issue
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&issues))
	require.Len(t, issues, 3)
	assert.Equal(t, []int{10, 20, 30}, []int{issues[0].Number, issues[1].Number, issues[2].Number})
}

func TestListIssuesEmptySnapshot(t *testing.T) {
	server, _ := newTestServer(t, &fakeFetcher{})

	resp, err := http.Get(server.URL + "/api/issues")
	require.NoError(t, err)
	defer resp.Body.Close()

	var issues []*issue.Issue
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&issues))
	assert.Empty(t, issues)
}

func TestGetIssueFetchesOnMiss(t *testing.T) {
	fetcher := &fakeFetcher{records: map[int]*models.Record{
		17: {ID: 1001, Number: 17, Title: "Crash on save"},
	}}
	server, _ := newTestServer(t, fetcher)

	resp, err := http.Get(server.URL + "/api/issues/17")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got issue.Issue
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Crash on save", got.Title)
}

func TestGetIssueNotFoundAfterInitialization(t *testing.T) {
	fetcher := &fakeFetcher{batch: []*models.Record{{ID: 1, Number: 1}}}
	server, synchronizer := newTestServer(t, fetcher)
	require.NoError(t, synchronizer.RefreshNow(context.Background()))

	// 已初始化的视图不回源，未知编号直接 404
	resp, err := http.Get(server.URL + "/api/issues/99")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetIssueBadNumber(t *testing.T) {
	server, _ := newTestServer(t, &fakeFetcher{})

	resp, err := http.Get(server.URL + "/api/issues/abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetIssueBadGatewayOnFetchError(t *testing.T) {
	server, _ := newTestServer(t, &fakeFetcher{err: fmt.Errorf("remote down")})

	resp, err := http.Get(server.URL + "/api/issues/17")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t, &fakeFetcher{})

	resp, err := http.Post(server.URL+"/api/issues", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
