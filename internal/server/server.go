package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"covidapi/internal/query"
	"covidapi/internal/runlog"
)

// ── HTTP adapter ───────────────────────────────────────────
// Thin transport in front of the query layer: routes, CORS, epoch
// conversion and JSON bridging. No aggregation logic lives here.

// DataService is the query surface the adapter exposes over HTTP.
type DataService interface {
	GetDataPoints(ctx context.Context, metric string, start, end time.Time, isoCode string) ([]query.DataPoint, error)
	GetOneMetricPerCountry(ctx context.Context, metric string, at time.Time) ([]query.CountryMetric, error)
	GetAllCountryData(ctx context.Context) ([]query.Country, error)
	GetAllContinents(ctx context.Context) ([]string, error)
	GetAllMetricNames() []string
}

// RunHistory lists past ingestion runs. May be nil when run history is
// disabled.
type RunHistory interface {
	List(ctx context.Context) ([]runlog.Run, error)
}

// Server serves the query API.
type Server struct {
	svc    DataService
	runs   RunHistory
	logger *zap.SugaredLogger
	router *mux.Router
}

// New creates a Server. runs may be nil.
func New(svc DataService, runs RunHistory, logger *zap.SugaredLogger) *Server {
	s := &Server{svc: svc, runs: runs, logger: logger, router: mux.NewRouter()}

	s.router.HandleFunc("/ping", s.handlePing).Methods(http.MethodGet)
	s.router.HandleFunc("/getDataPoints", s.handleDataPoints).Methods(http.MethodPost)
	s.router.HandleFunc("/getOneMetricPerCountry", s.handleOneMetricPerCountry).Methods(http.MethodPost)
	s.router.HandleFunc("/getAllCountryData", s.handleCountryData).Methods(http.MethodGet)
	s.router.HandleFunc("/getAllContinents", s.handleContinents).Methods(http.MethodGet)
	s.router.HandleFunc("/getAllMetricNames", s.handleMetricNames).Methods(http.MethodGet)
	s.router.HandleFunc("/getIngestHistory", s.handleIngestHistory).Methods(http.MethodGet)

	return s
}

// Handler returns the root handler with CORS applied (any origin, as
// the API is consumed by browser frontends on other hosts).
func (s *Server) Handler() http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)(s.router)
}

// ListenAndServe serves until the listener fails or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// dataPointsRequest is the client request body for /getDataPoints.
// start/stop are epoch seconds.
type dataPointsRequest struct {
	Metric   string `json:"metric"`
	Start    int64  `json:"start"`
	Stop     int64  `json:"stop"`
	Location string `json:"location"`
}

func (s *Server) handleDataPoints(w http.ResponseWriter, r *http.Request) {
	var req dataPointsRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Metric == "" {
		s.writeError(w, http.StatusBadRequest, "metric is required")
		return
	}

	metric := query.ResolveMetricAlias(req.Metric)
	start := time.Unix(req.Start, 0).UTC()
	stop := time.Unix(req.Stop, 0).UTC()

	points, err := s.svc.GetDataPoints(r.Context(), metric, start, stop, req.Location)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	// Legacy wire shape: zero matching rows serializes as the scalar 0,
	// not an empty array.
	if len(points) == 0 {
		s.writeJSON(w, 0)
		return
	}
	s.writeJSON(w, points)
}

type oneMetricRequest struct {
	Metric string `json:"metric"`
	Time   int64  `json:"time"` // epoch seconds
}

func (s *Server) handleOneMetricPerCountry(w http.ResponseWriter, r *http.Request) {
	var req oneMetricRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Metric == "" {
		s.writeError(w, http.StatusBadRequest, "metric is required")
		return
	}

	metric := query.ResolveMetricAlias(req.Metric)
	metrics, err := s.svc.GetOneMetricPerCountry(r.Context(), metric, time.Unix(req.Time, 0).UTC())
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	if metrics == nil {
		metrics = []query.CountryMetric{}
	}
	s.writeJSON(w, metrics)
}

func (s *Server) handleCountryData(w http.ResponseWriter, r *http.Request) {
	countries, err := s.svc.GetAllCountryData(r.Context())
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	if countries == nil {
		countries = []query.Country{}
	}
	s.writeJSON(w, countries)
}

func (s *Server) handleContinents(w http.ResponseWriter, r *http.Request) {
	continents, err := s.svc.GetAllContinents(r.Context())
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	if continents == nil {
		continents = []string{}
	}
	s.writeJSON(w, continents)
}

func (s *Server) handleMetricNames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.svc.GetAllMetricNames())
}

func (s *Server) handleIngestHistory(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.writeJSON(w, []runlog.Run{})
		return
	}
	runs, err := s.runs.List(r.Context())
	if err != nil {
		s.logger.Errorw("list ingest history", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list ingest history")
		return
	}
	if runs == nil {
		runs = []runlog.Run{}
	}
	s.writeJSON(w, runs)
}

// decodeBody parses a JSON request body into dst. An empty or
// unparseable body is a client error (400), not a server error.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid or empty request body")
		return false
	}
	return true
}

func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, query.ErrUnknownMetric) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Errorw("query failed", "error", err)
	s.writeError(w, http.StatusInternalServerError, "query failed")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorw("encode response", "error", err)
	}
}
