package assessment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "portfolio": [
    {
      "segment": "Finance & GBS",
      "apps": [
        {"id": 1, "name": "Global SAP ERP", "gross": 18.5, "dc": 4, "tf": 5, "dr": 4, "der": 4, "er": 4,
         "strategy": "Modernize", "findings": ["Licence overlap"], "confidence": 84.0, "band": "High (Committable)", "weighted": 15.54}
      ],
      "total_weighted": 15.54
    },
    {
      "segment": "Operations",
      "apps": [
        {"id": "A-404", "name": "Supply Chain Tracker", "gross": 22.2, "dc": 2, "tf": 3, "dr": 2, "der": 2, "er": 2,
         "strategy": "Re-platform", "findings": [], "confidence": 44.0, "band": "Low (Aspirational)", "weighted": 9.77}
      ],
      "total_weighted": 9.77
    }
  ],
  "governance": {"raci": [], "gates": []}
}`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/portfolio" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPortfolio(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, samplePayload)
	client := NewClient(srv.URL+"/", nil, WithRateLimit(0))

	resp, err := client.FetchPortfolio(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Portfolio, 2)

	items := resp.Items()
	require.Len(t, items, 2)

	erp := items[0]
	assert.Equal(t, "1", erp.ID)
	assert.Equal(t, "Finance & GBS", erp.Segment)
	assert.Equal(t, 84.0, erp.Confidence)
	assert.Equal(t, 18.5, erp.Gross)
	assert.Equal(t, []string{"Licence overlap"}, erp.Imperfections)
	assert.Equal(t, 5.0, erp.Scores.TechnicalFeasibility)

	tracker := items[1]
	assert.Equal(t, "A-404", tracker.ID)
	assert.Equal(t, 44.0, tracker.Confidence)
}

func TestPortfolioWrapsTarget(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, samplePayload)
	client := NewClient(srv.URL, nil)

	p, err := client.Portfolio(context.Background(), 60)
	require.NoError(t, err)
	assert.Equal(t, 60.0, p.Target)
	assert.Len(t, p.Items, 2)
}

func TestFetchPortfolioErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"Server error", http.StatusInternalServerError, "database locked", "returned 500: database locked"},
		{"Malformed body", http.StatusOK, "{not json", "decode portfolio"},
		{"Bad id", http.StatusOK, `{"portfolio":[{"segment":"x","apps":[{"id":true}]}]}`, "decode portfolio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)
			_, err := NewClient(srv.URL, nil).FetchPortfolio(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFetchPortfolioUnconfigured(t *testing.T) {
	_, err := NewClient("  ", nil).FetchPortfolio(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestFetchPortfolioTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, nil, WithTimeout(50*time.Millisecond))
	_, err := client.FetchPortfolio(context.Background())
	require.Error(t, err)
}

func TestFetchPortfolioRateLimitCancelled(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, samplePayload)
	client := NewClient(srv.URL, nil, WithRateLimit(1))

	_, err := client.FetchPortfolio(context.Background())
	require.NoError(t, err)

	// The single token is spent; a second call must wait and the context ends first.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.FetchPortfolio(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestAppIDUnmarshal(t *testing.T) {
	var app App
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42}`), &app))
	assert.Equal(t, "42", app.ID.String())

	require.NoError(t, json.Unmarshal([]byte(`{"id": "X-1"}`), &app))
	assert.Equal(t, "X-1", app.ID.String())
}
