package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/chordstave/analysis"
	"github.com/jsphweid/chordstave/db"
	"github.com/jsphweid/chordstave/midi"
	"github.com/jsphweid/chordstave/model"
	"github.com/jsphweid/chordstave/stave"
	"github.com/rs/cors"
)

const maxBodyBytes = 1 << 20

type ServerOptions struct {
	Title        string
	ColourVoices bool
	CORSOrigins  []string
	// Analysis is optional; without it POST /analyze answers 503.
	Analysis *analysis.Client
}

// Server holds the HTTP handlers. Handlers are exported so tests can call
// them directly.
type Server struct {
	store db.Store
	log   *log.Logger
	opts  ServerOptions

	mu     sync.Mutex
	latest map[string]*clientLatest
}

// clientLatest is dropped from Server.latest once nothing is in flight.
type clientLatest struct {
	*analysis.Latest
	inFlight int
}

func NewServer(store db.Store, logger *log.Logger, opts ServerOptions) *Server {
	return &Server{
		store:  store,
		log:    logger,
		opts:   opts,
		latest: make(map[string]*clientLatest),
	}
}

// Router returns every route wrapped in request-id, logging and CORS
// middleware.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/health", s.HandleHealth).Methods("GET")
	router.HandleFunc("/render", s.HandleRender).Methods("POST")
	router.HandleFunc("/render/midi", s.HandleRenderMidi).Methods("POST")
	router.HandleFunc("/analyze", s.HandleAnalyze).Methods("POST")
	router.HandleFunc("/scores", s.HandleCreateScore).Methods("POST")
	router.HandleFunc("/scores/{id}", s.HandleGetScore).Methods("GET")

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id", "X-Client-Id"},
		ExposedHeaders: []string{"X-Request-Id", "Location"},
	})
	// wrapped outside mux so unmatched routes get an id and a log line too
	return c.Handler(s.requestId(s.logRequests(router)))
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleRender renders an analysis response posted as JSON. The format query
// parameter picks svg (default), html or json.
func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	var resp model.AnalysisResponse
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&resp); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("could not decode request body: %w", err))
		return
	}
	s.render(w, r, resp)
}

// HandleRenderMidi renders the chords of an uploaded MIDI file (form field
// "file"). key, time, mode and min_notes come from the query string.
func (s *Server) HandleRenderMidi(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("missing midi file: %w", err))
		return
	}
	defer file.Close()

	q := r.URL.Query()
	minNotes := 2
	if v := q.Get("min_notes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("bad min_notes %q", v))
			return
		}
		minNotes = n
	}
	resp, err := responseFromMidi(file, valueOr(q.Get("key"), "C"), valueOr(q.Get("time"), "4/4"), valueOr(q.Get("mode"), "piano"), minNotes)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	s.render(w, r, resp)
}

// HandleAnalyze forwards the chord-builder form to the analysis server and
// renders what comes back. A newer submission from the same X-Client-Id
// cancels an older one that is still waiting. Requests without the header
// never cancel each other.
func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.opts.Analysis == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, errors.New("no analysis server configured"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	form := analysis.Form{
		Chords:      r.Form["chord"],
		Key:         r.FormValue("key"),
		Time:        r.FormValue("time"),
		DisplayForm: r.FormValue("display_options"),
	}

	client := r.Header.Get("X-Client-Id")
	var (
		resp model.AnalysisResponse
		err  error
	)
	if client == "" {
		resp, err = s.opts.Analysis.Analyze(r.Context(), form)
	} else {
		latest := s.acquireLatest(client)
		resp, err = latest.Analyze(r.Context(), form)
		s.releaseLatest(client)
	}
	if client != "" && errors.Is(err, context.Canceled) {
		s.writeError(w, r, http.StatusConflict, errors.New("superseded by a newer submission"))
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusBadGateway, err)
		return
	}
	s.render(w, r, resp)
}

// HandleCreateScore renders a posted analysis response and stores it.
func (s *Server) HandleCreateScore(w http.ResponseWriter, r *http.Request) {
	var resp model.AnalysisResponse
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&resp); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("could not decode request body: %w", err))
		return
	}
	res, err := stave.Build(resp, stave.Options{ColourVoices: s.opts.ColourVoices})
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	score := model.StoredScore{
		Id:        uuid.New().String(),
		Key:       resp.Key,
		Time:      res.Partition.Time.String(),
		Mode:      res.Partition.Mode.String(),
		NumChords: res.Partition.NumChords(),
		SVG:       string(res.SVG),
		Warnings:  res.Warnings,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(r.Context(), score); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Location", "/scores/"+score.Id)
	writeJSON(w, http.StatusCreated, model.ScoreCreated{Id: score.Id})
}

// HandleGetScore returns a stored score as JSON, or its drawing alone with
// format=svg or format=html.
func (s *Server) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("%w: %s", db.ErrNotFound, id))
		return
	}
	score, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		io.WriteString(w, score.SVG)
	case "html":
		res := &stave.Result{SVG: []byte(score.SVG), Warnings: score.Warnings}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := res.WriteHTML(w, s.opts.Title); err != nil {
			s.log.Error("writing page", "err", err)
		}
	default:
		writeJSON(w, http.StatusOK, score)
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, resp model.AnalysisResponse) {
	res, err := stave.Build(resp, stave.Options{ColourVoices: s.opts.ColourVoices})
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	case "json":
		writeJSON(w, http.StatusOK, renderResponse(res))
		return
	default:
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown format %q", format))
		return
	}
	if err := writeResult(w, res, format, s.opts.Title); err != nil {
		s.log.Error("writing response", "err", err)
	}
}

func (s *Server) acquireLatest(client string) *analysis.Latest {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.latest[client]
	if !ok {
		l = &clientLatest{Latest: analysis.NewLatest(s.opts.Analysis)}
		s.latest[client] = l
	}
	l.inFlight++
	return l.Latest
}

func (s *Server) releaseLatest(client string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.latest[client]
	if !ok {
		return
	}
	l.inFlight--
	if l.inFlight <= 0 {
		delete(s.latest, client)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, stave.ErrAnalysisFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case stave.IsInputError(err),
		errors.Is(err, midi.ErrInvalidMidi),
		errors.Is(err, midi.ErrNoChords):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= 500 {
		s.log.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-Id", id)
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", r.Header.Get("X-Request-Id"),
		)
	})
}
