// Package assessment fetches scored applications from an assessment service
// and turns them into portfolio items.
package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const portfolioPath = "/api/v1/portfolio"

// maxErrorBody caps how much of an error response is quoted in the error.
const maxErrorBody = 512

// App is one assessed application. Scores are on a 1-5 scale.
type App struct {
	ID         AppID    `json:"id"`
	Name       string   `json:"name"`
	Gross      float64  `json:"gross"`
	DC         float64  `json:"dc"`
	TF         float64  `json:"tf"`
	DR         float64  `json:"dr"`
	DER        float64  `json:"der"`
	ER         float64  `json:"er"`
	Strategy   string   `json:"strategy"`
	Findings   []string `json:"findings"`
	Confidence float64  `json:"confidence"`
	Band       string   `json:"band"`
	Weighted   float64  `json:"weighted"`
}

// Scores returns the app's dimension scores.
func (a App) Scores() portfolio.Scores {
	return portfolio.Scores{
		DataConfidence:       a.DC,
		TechnicalFeasibility: a.TF,
		DependencyReadiness:  a.DR,
		DecisionReadiness:    a.DER,
		ExecutionReadiness:   a.ER,
	}
}

// Segment groups apps by business segment.
type Segment struct {
	Segment       string  `json:"segment"`
	Apps          []App   `json:"apps"`
	TotalWeighted float64 `json:"total_weighted"`
}

// Response is the body of the portfolio endpoint.
type Response struct {
	Portfolio []Segment `json:"portfolio"`
}

// Items converts every app into a portfolio item, in segment order. The
// confidence is recomputed from the dimension scores.
func (r Response) Items() []portfolio.Item {
	var items []portfolio.Item
	for _, seg := range r.Portfolio {
		for _, app := range seg.Apps {
			scores := app.Scores()
			items = append(items, portfolio.Item{
				ID:            app.ID.String(),
				Name:          app.Name,
				Segment:       seg.Segment,
				Gross:         app.Gross,
				Confidence:    portfolio.ConfidenceFromScores(scores),
				Strategy:      app.Strategy,
				Scores:        scores,
				Imperfections: app.Findings,
			})
		}
	}
	return items
}

// AppID accepts either a JSON string or a JSON number.
type AppID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *AppID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = AppID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("app id must be a string or number: %w", err)
	}
	*id = AppID(n.String())
	return nil
}

func (id AppID) String() string {
	return string(id)
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit sets the requests-per-second limit. A non-positive value
// disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// Client talks to the assessment service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: constants.DefaultAssessmentTimeoutSeconds * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(constants.DefaultAssessmentRequestsPerSecond), int(constants.DefaultAssessmentRequestsPerSecond)),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// FetchPortfolio retrieves the scored portfolio.
func (c *Client) FetchPortfolio(ctx context.Context) (*Response, error) {
	if c.baseURL == "" {
		return nil, eris.New("assessment: base URL is not configured")
	}
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "assessment: rate limit")
	}

	url := c.baseURL + portfolioPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "assessment: build request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "assessment: GET %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, eris.Errorf("assessment: GET %s returned %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, eris.Wrap(err, "assessment: decode portfolio")
	}

	c.logger.Info("fetched assessment portfolio",
		zap.String("op", "assessment.FetchPortfolio"),
		zap.String("url", url),
		zap.Int("segments", len(out.Portfolio)),
		zap.Duration("duration", time.Since(start)),
	)
	return &out, nil
}

// Portfolio fetches the assessed apps and wraps them in a portfolio with the
// given target.
func (c *Client) Portfolio(ctx context.Context, target float64) (portfolio.Portfolio, error) {
	resp, err := c.FetchPortfolio(ctx)
	if err != nil {
		return portfolio.Portfolio{}, err
	}
	return portfolio.Portfolio{Target: target, Items: resp.Items()}, nil
}
