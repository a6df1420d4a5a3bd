package jobindex_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobshield/jobshield/internal/config"
	"github.com/jobshield/jobshield/internal/jobindex"
)

func testConfig(baseURL string) config.JobIndexConfig {
	return config.JobIndexConfig{
		BaseURL:           baseURL,
		AppID:             "test-id",
		AppKey:            "test-key",
		Country:           "us",
		Timeout:           2 * time.Second,
		MaxPages:          2,
		PageSize:          2,
		MaxMatches:        100,
		RateRPS:           100,
		RateBurst:         100,
		TitleSimilarity:   75,
		CompanySimilarity: 70,
	}
}

func listing(title, company string) string {
	return fmt.Sprintf(`{"title":%q,"company":{"display_name":%q},"redirect_url":"https://idx.example/%s"}`, title, company, title)
}

func TestVerifier_MissingCredentialsSkipsLookup(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.AppID = ""
	verifier := jobindex.NewVerifier(cfg, nil)

	result := verifier.Verify(context.Background(), "Data Entry Clerk", "Acme", "")

	assert.False(t, result.Found)
	assert.Zero(t, result.Matches)
	assert.Nil(t, result.Sample)
}

func TestVerifier_AcceptsFuzzyMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("app_key"))
		assert.Equal(t, "Data Entry Clerk", r.URL.Query().Get("what"))

		fmt.Fprintf(w, `{"count":3,"results":[%s]}`,
			listing("Data Entry Clerk (Remote)", "Acme Widgets"))
	}))
	defer srv.Close()

	verifier := jobindex.NewVerifier(testConfig(srv.URL), nil)
	result := verifier.Verify(context.Background(), "Data Entry Clerk", "Acme Widgets", "")

	assert.True(t, result.Found)
	assert.Equal(t, 1, result.Matches)
	require.NotNil(t, result.Sample)
	assert.Equal(t, "Data Entry Clerk (Remote)", result.Sample.Title)
	assert.Equal(t, "Acme Widgets", result.Sample.Company)
	assert.Equal(t, "adzuna", result.Sample.Source)
}

func TestVerifier_RejectsDissimilarCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"count":2,"results":[%s,%s]}`,
			listing("Truck Driver", "Acme Widgets"),
			listing("Data Entry Clerk", "Totally Different Corp"))
	}))
	defer srv.Close()

	verifier := jobindex.NewVerifier(testConfig(srv.URL), nil)
	result := verifier.Verify(context.Background(), "Data Entry Clerk", "Acme Widgets", "")

	assert.False(t, result.Found)
	assert.Zero(t, result.Matches)
}

func TestVerifier_UnknownCompanySkipsCompanyCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"count":1,"results":[%s]}`,
			listing("Data Entry Clerk", "Whoever Hires"))
	}))
	defer srv.Close()

	verifier := jobindex.NewVerifier(testConfig(srv.URL), nil)
	result := verifier.Verify(context.Background(), "Data Entry Clerk", "", "")

	assert.True(t, result.Found)
	assert.Equal(t, 1, result.Matches)
}

func TestVerifier_WalksPagesUntilShortPage(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Path)
		switch len(pages) {
		case 1:
			// Full page: keep going.
			fmt.Fprintf(w, `{"count":3,"results":[%s,%s]}`,
				listing("Data Entry Clerk", "Acme"),
				listing("Data Entry Clerk", "Acme"))
		default:
			// Short page: stop.
			fmt.Fprintf(w, `{"count":3,"results":[%s]}`,
				listing("Data Entry Clerk", "Acme"))
		}
	}))
	defer srv.Close()

	verifier := jobindex.NewVerifier(testConfig(srv.URL), nil)
	result := verifier.Verify(context.Background(), "Data Entry Clerk", "Acme", "Boston")

	assert.Equal(t, 3, result.Matches)
	require.Len(t, pages, 2)
	assert.Equal(t, "/us/search/1", pages[0])
	assert.Equal(t, "/us/search/2", pages[1])
}

func TestVerifier_DegradesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	verifier := jobindex.NewVerifier(testConfig(srv.URL), nil)
	result := verifier.Verify(context.Background(), "Data Entry Clerk", "Acme", "")

	assert.False(t, result.Found)
	assert.Zero(t, result.Matches)
}

func TestVerifier_DegradesOnMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results": [{`)
	}))
	defer srv.Close()

	verifier := jobindex.NewVerifier(testConfig(srv.URL), nil)
	result := verifier.Verify(context.Background(), "Data Entry Clerk", "Acme", "")

	assert.False(t, result.Found)
}

func TestVerifier_DegradesOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"count":0,"results":[]}`)
	}))
	defer srv.Close()

	verifier := jobindex.NewVerifier(testConfig(srv.URL), nil)
	verifier.SetTimeout(50 * time.Millisecond)

	start := time.Now()
	result := verifier.Verify(context.Background(), "Data Entry Clerk", "Acme", "")

	assert.False(t, result.Found)
	assert.Less(t, time.Since(start), time.Second)
}

func TestVerifier_DegradesOnUnreachableHost(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Timeout = 200 * time.Millisecond
	verifier := jobindex.NewVerifier(cfg, nil)

	result := verifier.Verify(context.Background(), "Data Entry Clerk", "Acme", "")

	assert.False(t, result.Found)
	assert.Zero(t, result.Matches)
}
