// Package chi exposes the HTTP API: the explain pipeline, the brand catalog,
// and operational endpoints.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ayo-labs/copilot/internal/domain"
	brandsuc "github.com/ayo-labs/copilot/internal/usecase/brands"
	explainuc "github.com/ayo-labs/copilot/internal/usecase/explain"
	healthuc "github.com/ayo-labs/copilot/internal/usecase/health"
)

const dateLayout = "2006-01-02"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecase services to HTTP routes.
type Server struct {
	explain       *explainuc.Service
	brands        *brandsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	explain *explainuc.Service,
	brands *brandsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		explain: explain,
		brands:  brands,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest),
		sentinelHandler(domain.ErrBrandNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrNoPriceData, http.StatusNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrProvider, http.StatusBadGateway),
		sentinelHandler(domain.ErrMalformedResponse, http.StatusBadGateway),
	}
	return s
}

// Routes mounts all API routes on r.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/explain", s.ExplainTerm)
		r.Get("/explain", s.ExplainTermGet)
		r.Get("/brands", s.ListBrands)
		r.Route("/brands/{ticker}", func(r chi.Router) {
			r.Get("/", s.GetBrand)
			r.Get("/prices", s.GetPrices)
			r.Get("/calculate", s.Calculate)
			r.Get("/events", s.GetEvents)
			r.Get("/social", s.GetSocial)
		})
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// explainRequest is the POST /explain body.
type explainRequest struct {
	Term  string `json:"term"`
	Brand string `json:"brand,omitempty"`
}

// explainMetadata reports brand_detected as null, not "", when no brand was
// found.
type explainMetadata struct {
	BrandDetected  *string                `json:"brand_detected"`
	ResponseTimeMS int64                  `json:"response_time_ms"`
	SourcesUsed    explainuc.SourceCounts `json:"sources_used"`
}

// ExplainTerm handles POST /api/v1/explain.
func (s *Server) ExplainTerm(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.runExplain(w, r, req.Term, req.Brand)
}

// ExplainTermGet handles GET /api/v1/explain?term=&brand= (manual testing).
func (s *Server) ExplainTermGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.runExplain(w, r, q.Get("term"), q.Get("brand"))
}

func (s *Server) runExplain(w http.ResponseWriter, r *http.Request, term, brand string) {
	res, err := s.explain.Explain(r.Context(), term, brand)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var brandDetected *string
	if res.BrandDetected != "" {
		brandDetected = &res.BrandDetected
	}

	writeData(w, http.StatusOK, res.Explanation, &explainMetadata{
		BrandDetected:  brandDetected,
		ResponseTimeMS: res.ResponseTimeMS,
		SourcesUsed:    res.Sources,
	})
}

type brandDTO struct {
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Description   string  `json:"description,omitempty"`
	HypeScore     float64 `json:"hype_score"`
	Confidence    string  `json:"confidence,omitempty"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	MarketCap     float64 `json:"market_cap"`
}

type brandDetailDTO struct {
	brandDTO
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
	Volume           int64   `json:"volume"`
}

func brandToDTO(l brandsuc.Listing) brandDTO {
	return brandDTO{
		Ticker:        l.Profile.Ticker,
		Name:          l.Profile.Name,
		Category:      l.Profile.Category,
		Description:   l.Profile.Description,
		HypeScore:     l.Profile.HypeScore,
		Confidence:    l.Profile.Confidence,
		Price:         l.Quote.Price,
		ChangePercent: l.Quote.ChangePercent,
		MarketCap:     l.Quote.MarketCap,
	}
}

// ListBrands handles GET /api/v1/brands.
func (s *Server) ListBrands(w http.ResponseWriter, r *http.Request) {
	listings, err := s.brands.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]brandDTO, len(listings))
	for i, l := range listings {
		items[i] = brandToDTO(l)
	}
	writeData(w, http.StatusOK, items, nil)
}

// GetBrand handles GET /api/v1/brands/{ticker}.
func (s *Server) GetBrand(w http.ResponseWriter, r *http.Request) {
	listing, err := s.brands.Detail(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, brandDetailDTO{
		brandDTO:         brandToDTO(listing),
		FiftyTwoWeekHigh: listing.Quote.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  listing.Quote.FiftyTwoWeekLow,
		Volume:           listing.Quote.Volume,
	}, nil)
}

type pricePointDTO struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// GetPrices handles GET /api/v1/brands/{ticker}/prices.
// Accepts either ?period=1y|2y|3y|5y or an explicit ?from=&to= range.
func (s *Server) GetPrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := q.Get("period")
	if period == "" && q.Get("from") == "" {
		period = "1y"
	}

	var from, to time.Time
	if fromStr := q.Get("from"); fromStr != "" {
		var err error
		from, err = time.Parse(dateLayout, fromStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}
		toStr := q.Get("to")
		if toStr == "" {
			writeError(w, http.StatusBadRequest, "to is required with from")
			return
		}
		to, err = time.Parse(dateLayout, toStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return
		}
	}

	points, err := s.brands.Prices(r.Context(), chi.URLParam(r, "ticker"), period, from, to)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]pricePointDTO, len(points))
	for i, p := range points {
		items[i] = pricePointDTO{
			Date:   p.Date.Format(dateLayout),
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		}
	}
	writeData(w, http.StatusOK, items, nil)
}

type calculateDTO struct {
	Ticker        string  `json:"ticker"`
	Amount        float64 `json:"amount"`
	EntryDate     string  `json:"entry_date"`
	EntryPrice    float64 `json:"entry_price"`
	CurrentPrice  float64 `json:"current_price"`
	Shares        float64 `json:"shares"`
	CurrentValue  float64 `json:"current_value"`
	Profit        float64 `json:"profit"`
	ReturnPercent float64 `json:"return_percent"`
	SP500Return   float64 `json:"sp500_return"`
	VsMarket      float64 `json:"vs_market"`
}

// Calculate handles GET /api/v1/brands/{ticker}/calculate?amount=&date=.
func (s *Server) Calculate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amountStr := q.Get("amount")
	if amountStr == "" {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	dateStr := q.Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	res, err := s.brands.Calculate(r.Context(), chi.URLParam(r, "ticker"), amount, date)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, calculateDTO{
		Ticker:        res.Ticker,
		Amount:        res.Amount,
		EntryDate:     res.EntryDate.Format(dateLayout),
		EntryPrice:    res.EntryPrice,
		CurrentPrice:  res.CurrentPrice,
		Shares:        res.Shares,
		CurrentValue:  res.CurrentValue,
		Profit:        res.Profit,
		ReturnPercent: res.ReturnPercent,
		SP500Return:   res.SP500Return,
		VsMarket:      res.VsMarket,
	}, nil)
}

type eventDTO struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

type forecastEventDTO struct {
	ID             int64           `json:"id"`
	Date           string          `json:"date"`
	Title          string          `json:"title"`
	Probability    float64         `json:"probability"`
	ExpectedImpact string          `json:"expected_impact"`
	Commentary     json.RawMessage `json:"commentary"`
	Summary        string          `json:"summary"`
}

type timelineDTO struct {
	Social   []eventDTO         `json:"social"`
	Key      []eventDTO         `json:"key"`
	Forecast []forecastEventDTO `json:"forecast"`
}

// GetEvents handles GET /api/v1/brands/{ticker}/events.
func (s *Server) GetEvents(w http.ResponseWriter, r *http.Request) {
	tl, err := s.brands.Events(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	dto := timelineDTO{
		Social:   make([]eventDTO, len(tl.Social)),
		Key:      make([]eventDTO, len(tl.Key)),
		Forecast: make([]forecastEventDTO, len(tl.Forecast)),
	}
	for i, e := range tl.Social {
		dto.Social[i] = toEventDTO(e)
	}
	for i, e := range tl.Key {
		dto.Key[i] = toEventDTO(e)
	}
	for i, f := range tl.Forecast {
		commentary, _ := json.Marshal(f.Commentary)
		dto.Forecast[i] = forecastEventDTO{
			ID:             f.Event.ID,
			Date:           f.Event.Date.Format(dateLayout),
			Title:          f.Event.Title,
			Probability:    f.Event.Probability,
			ExpectedImpact: f.Event.ExpectedImpact,
			Commentary:     commentary,
			Summary:        f.Commentary.Short(),
		}
	}
	writeData(w, http.StatusOK, dto, nil)
}

func toEventDTO(e domain.Event) eventDTO {
	return eventDTO{
		ID:          e.ID,
		Date:        e.Date.Format(dateLayout),
		Title:       e.Title,
		Description: e.Description,
		Source:      e.Source,
	}
}

type wsbSignalDTO struct {
	Mentions  int    `json:"mentions"`
	Sentiment string `json:"sentiment"`
}

type subredditSignalDTO struct {
	Subreddit       string `json:"subreddit"`
	PostCount       int    `json:"post_count"`
	TotalEngagement int    `json:"total_engagement"`
	AvgEngagement   int    `json:"avg_engagement"`
}

type trendsSignalDTO struct {
	Interest   int     `json:"current_interest"`
	WeekChange float64 `json:"week_over_week_change"`
	Direction  string  `json:"trend"`
}

type socialPointDTO struct {
	Date           string `json:"date"`
	GoogleTrends   int    `json:"google_trends"`
	RedditMentions int    `json:"reddit_mentions"`
}

type socialSignalsDTO struct {
	Ticker         string             `json:"ticker"`
	WallStreetBets wsbSignalDTO       `json:"wallstreetbets"`
	Subreddit      subredditSignalDTO `json:"subreddit"`
	GoogleTrends   trendsSignalDTO    `json:"google_trends"`
	History        []socialPointDTO   `json:"history"`
}

func toSocialDTO(sig domain.SocialSignals) socialSignalsDTO {
	dto := socialSignalsDTO{
		Ticker:         sig.Ticker,
		WallStreetBets: wsbSignalDTO{Mentions: sig.WSB.Mentions, Sentiment: sig.WSB.Sentiment},
		Subreddit: subredditSignalDTO{
			Subreddit:       sig.Subreddit.Subreddit,
			PostCount:       sig.Subreddit.PostCount,
			TotalEngagement: sig.Subreddit.TotalEngagement,
			AvgEngagement:   sig.Subreddit.AvgEngagement,
		},
		GoogleTrends: trendsSignalDTO{
			Interest:   sig.Trends.Interest,
			WeekChange: sig.Trends.WeekChange,
			Direction:  sig.Trends.Direction,
		},
		History: make([]socialPointDTO, len(sig.History)),
	}
	for i, p := range sig.History {
		dto.History[i] = socialPointDTO{
			Date:           p.Date.Format(dateLayout),
			GoogleTrends:   p.GoogleTrends,
			RedditMentions: p.RedditMentions,
		}
	}
	return dto
}

// GetSocial handles GET /api/v1/brands/{ticker}/social?days=.
func (s *Server) GetSocial(w http.ResponseWriter, r *http.Request) {
	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		var err error
		days, err = strconv.Atoi(daysStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid days")
			return
		}
	}

	sig, err := s.brands.Social(r.Context(), chi.URLParam(r, "ticker"), days)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, toSocialDTO(sig), nil)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// successEnvelope is the {success, data, metadata} response shape.
type successEnvelope struct {
	Success  bool `json:"success"`
	Data     any  `json:"data"`
	Metadata any  `json:"metadata,omitempty"`
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data, metadata any) {
	env := successEnvelope{Success: true, Data: data}
	if metadata != nil {
		env.Metadata = metadata
	}
	writeJSON(w, status, env)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failureEnvelope{Success: false, Error: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrBrandNotFound,
		domain.ErrNoPriceData,
		domain.ErrNotFound,
		domain.ErrProvider,
		domain.ErrMalformedResponse,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
