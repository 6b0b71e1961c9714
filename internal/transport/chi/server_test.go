package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayo-labs/copilot/internal/domain"
	brandsuc "github.com/ayo-labs/copilot/internal/usecase/brands"
	explainuc "github.com/ayo-labs/copilot/internal/usecase/explain"
	healthuc "github.com/ayo-labs/copilot/internal/usecase/health"
)

type stubDetector struct{ brand string }

func (s *stubDetector) Detect(_ context.Context, _ string) (string, error) { return s.brand, nil }

type stubRetriever struct {
	result domain.RetrievalResult
	err    error
}

func (s *stubRetriever) Retrieve(
	_ context.Context, _, _ string, _ domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	return s.result, s.err
}

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

type stubProfiles struct {
	profiles []domain.BrandProfile
}

func (s *stubProfiles) Profiles(_ context.Context) ([]domain.BrandProfile, error) {
	return s.profiles, nil
}

func (s *stubProfiles) ProfileByTicker(_ context.Context, ticker string) (domain.BrandProfile, error) {
	for _, p := range s.profiles {
		if p.Ticker == ticker {
			return p, nil
		}
	}
	return domain.BrandProfile{}, domain.ErrBrandNotFound
}

type stubQuotes struct {
	quote   domain.Quote
	history []domain.PricePoint
}

func (s *stubQuotes) Quote(_ context.Context, _ string) (domain.Quote, error) {
	return s.quote, nil
}

func (s *stubQuotes) History(_ context.Context, _ string, _, _ time.Time) ([]domain.PricePoint, error) {
	if len(s.history) == 0 {
		return nil, domain.ErrNoPriceData
	}
	return s.history, nil
}

type stubEvents struct{ forecast []domain.Event }

func (s *stubEvents) Social(_ context.Context, _ string) ([]domain.Event, error) { return nil, nil }
func (s *stubEvents) Key(_ context.Context, _ string) ([]domain.Event, error)    { return nil, nil }
func (s *stubEvents) Forecast(_ context.Context, _ string) ([]domain.Event, error) {
	return s.forecast, nil
}

type stubSocial struct{ signals domain.SocialSignals }

func (s *stubSocial) Signals(_ context.Context, ticker string, _ int) (domain.SocialSignals, error) {
	sig := s.signals
	sig.Ticker = ticker
	return sig, nil
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(_ context.Context) error { return s.err }

type serverDeps struct {
	detector  *stubDetector
	retriever *stubRetriever
	completer *stubCompleter
	quotes    *stubQuotes
	events    *stubEvents
	social    *stubSocial
	pinger    *stubPinger
}

func defaultDeps() *serverDeps {
	return &serverDeps{
		detector: &stubDetector{brand: "Nike"},
		retriever: &stubRetriever{result: domain.RetrievalResult{
			Glossary: []domain.GlossaryEntry{{Term: "Gross Margin", Content: json.RawMessage(`{}`), Score: 0.9}},
		}},
		completer: &stubCompleter{reply: `{"definition": "d", "real_talk": "r"}`},
		quotes: &stubQuotes{
			quote: domain.Quote{Price: 72.45, ChangePercent: 1.2, MarketCap: 1e11},
		},
		events: &stubEvents{},
		social: &stubSocial{signals: domain.SocialSignals{
			Trends: domain.TrendsSignal{Interest: 94, WeekChange: 77.4, Direction: "up"},
		}},
		pinger: &stubPinger{},
	}
}

func newTestRouter(deps *serverDeps) http.Handler {
	explainSvc := explainuc.New(
		deps.detector, deps.retriever, deps.completer, nil,
		domain.DefaultRetrievalOptions(), nil,
	)
	brandsSvc := brandsuc.New(
		&stubProfiles{profiles: []domain.BrandProfile{{Ticker: "NKE", Name: "Nike", Category: "apparel"}}},
		deps.quotes, deps.events, deps.social, nil,
	)
	healthSvc := healthuc.New(deps.pinger, nil)

	server := NewServer(explainSvc, brandsSvc, healthSvc, zap.NewNop())
	r := chi.NewRouter()
	server.Routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestExplain_Success(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "POST", "/api/v1/explain", `{"term": "Gross Margin", "brand": "Nike"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success  bool               `json:"success"`
		Data     domain.Explanation `json:"data"`
		Metadata struct {
			BrandDetected string `json:"brand_detected"`
			SourcesUsed   struct {
				Glossary int `json:"glossary"`
			} `json:"sources_used"`
		} `json:"metadata"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data.Definition != "d" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Metadata.BrandDetected != "Nike" || resp.Metadata.SourcesUsed.Glossary != 1 {
		t.Errorf("unexpected metadata: %+v", resp.Metadata)
	}
}

func TestExplain_GetQueryParams(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/api/v1/explain?term=EBITDA", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestExplain_MissingTerm_400(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "POST", "/api/v1/explain", `{"brand": "Nike"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}

	var resp failureEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("failure envelope must have success=false")
	}
}

func TestExplain_NoBrand_NullMetadata(t *testing.T) {
	deps := defaultDeps()
	deps.detector.brand = ""
	router := newTestRouter(deps)

	rr := doRequest(t, router, "POST", "/api/v1/explain", `{"term": "EBITDA"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	body := rr.Body.String()
	if !strings.Contains(body, `"brand_detected":null`) {
		t.Errorf("expected null brand_detected, body = %s", body)
	}

	var resp struct {
		Metadata struct {
			BrandDetected *string `json:"brand_detected"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Metadata.BrandDetected != nil {
		t.Errorf("brand_detected = %q, want null", *resp.Metadata.BrandDetected)
	}
}

func TestExplain_ProviderError_502(t *testing.T) {
	deps := defaultDeps()
	deps.retriever.err = domain.ErrProvider
	router := newTestRouter(deps)

	rr := doRequest(t, router, "POST", "/api/v1/explain", `{"term": "Gross Margin"}`)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
}

func TestExplain_MalformedReply_502(t *testing.T) {
	deps := defaultDeps()
	deps.completer.reply = "not json at all"
	router := newTestRouter(deps)

	rr := doRequest(t, router, "POST", "/api/v1/explain", `{"term": "Gross Margin"}`)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
}

func TestListBrands(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/api/v1/brands", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Ticker string  `json:"ticker"`
			Price  float64 `json:"price"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Ticker != "NKE" || resp.Data[0].Price != 72.45 {
		t.Errorf("unexpected listing: %+v", resp.Data)
	}
}

func TestGetBrand_NotFound_404(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/api/v1/brands/ZZZZ", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestGetPrices_BadPeriod_400(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/api/v1/brands/NKE/prices?period=6m", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestGetPrices_NoData_404(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/api/v1/brands/NKE/prices?period=1y", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestGetPrices_ExplicitRange(t *testing.T) {
	deps := defaultDeps()
	deps.quotes.history = []domain.PricePoint{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Close: 70},
	}
	router := newTestRouter(deps)

	rr := doRequest(t, router, "GET", "/api/v1/brands/NKE/prices?from=2024-01-01&to=2024-01-02", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestCalculate_MissingParams_400(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/api/v1/brands/NKE/calculate", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("no amount: status = %d, want 400", rr.Code)
	}

	rr = doRequest(t, router, "GET", "/api/v1/brands/NKE/calculate?amount=1000", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("no date: status = %d, want 400", rr.Code)
	}
}

func TestGetEvents_ForecastCommentary(t *testing.T) {
	deps := defaultDeps()
	deps.events.forecast = []domain.Event{{
		Title:          "Q3 Earnings Report",
		Date:           time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		ExpectedImpact: "Beat could push shares to $95 (+18%)",
	}}
	router := newTestRouter(deps)

	rr := doRequest(t, router, "GET", "/api/v1/brands/NKE/events", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp struct {
		Data struct {
			Forecast []struct {
				Commentary struct {
					Context  string `json:"context"`
					Question string `json:"question"`
					Hook     string `json:"hook"`
				} `json:"commentary"`
				Summary string `json:"summary"`
			} `json:"forecast"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Forecast) != 1 || resp.Data.Forecast[0].Commentary.Hook == "" {
		t.Errorf("forecast commentary missing: %+v", resp.Data)
	}
	f := resp.Data.Forecast[0]
	if f.Summary != f.Commentary.Context+" "+f.Commentary.Question {
		t.Errorf("summary must be the card-sized commentary, got %q", f.Summary)
	}
}

func TestGetSocial(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/api/v1/brands/NKE/social", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Ticker       string `json:"ticker"`
			GoogleTrends struct {
				Interest  int    `json:"current_interest"`
				Direction string `json:"trend"`
			} `json:"google_trends"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data.Ticker != "NKE" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Data.GoogleTrends.Interest != 94 || resp.Data.GoogleTrends.Direction != "up" {
		t.Errorf("unexpected trends: %+v", resp.Data.GoogleTrends)
	}
}

func TestGetSocial_UnknownTicker_404(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/api/v1/brands/ZZZZ/social", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestGetSocial_BadDays_400(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/api/v1/brands/NKE/social?days=soon", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHealth_Degraded_503(t *testing.T) {
	deps := defaultDeps()
	deps.pinger.err = context.DeadlineExceeded
	router := newTestRouter(deps)

	rr := doRequest(t, router, "GET", "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestHealth_OK(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rr := doRequest(t, router, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
