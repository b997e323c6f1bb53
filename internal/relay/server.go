package relay

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// maxEventBody bounds the size of accepted event payloads.
const maxEventBody = 1 << 20

// Server exposes the relay over HTTP: receipt events, health and metrics.
type Server struct {
	forwarder *Forwarder
	metrics   *Metrics
	log       zerolog.Logger
}

// NewServer returns a Server around the given forwarder.
func NewServer(forwarder *Forwarder, metrics *Metrics, logger zerolog.Logger) *Server {
	return &Server{forwarder: forwarder, metrics: metrics, log: logger}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Post("/events", s.handleEvents)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.metrics.Events.Inc()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	event, err := ParseEvent(body)
	if err != nil {
		s.log.Warn().Err(err).Msg("rejecting malformed event")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if event.SubscribeURL != "" {
		// Confirmation is an operator action; surface the URL instead of
		// blindly fetching attacker-controlled input.
		s.log.Info().
			Str("subscribe_url", event.SubscribeURL).
			Msg("received SNS subscription confirmation request")
		w.WriteHeader(http.StatusOK)
		return
	}

	var failed int
	for _, messageID := range event.MessageIDs {
		result, err := s.forwarder.HandleMessage(r.Context(), messageID)
		if err != nil {
			failed++
			s.metrics.Messages.WithLabelValues("error").Inc()
			s.log.Error().Err(err).
				Str("message_id", messageID).
				Msg("failed to handle message")
			continue
		}
		s.metrics.Messages.WithLabelValues(result.Path).Inc()
	}

	if failed > 0 {
		http.Error(w, "one or more messages failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
