package api

import (
	"net/http"

	"github.com/okian/flightgate/internal/domain/quote"
	"github.com/okian/flightgate/pkg/logger"
	"github.com/okian/flightgate/pkg/metrics"
)

// FlightsHandler serves the one-way and round-trip search routes.
type FlightsHandler struct {
	searcher      Searcher
	logger        logger.Logger
	failureStatus int
}

// NewFlightsHandler creates a flights handler. With strict unset, failures
// keep status 200 and only the body reports INTERNAL_SERVER_ERROR.
func NewFlightsHandler(searcher Searcher, l logger.Logger, strict bool) *FlightsHandler {
	status := http.StatusOK
	if strict {
		status = http.StatusInternalServerError
	}
	return &FlightsHandler{searcher: searcher, logger: l, failureStatus: status}
}

// HandleOneWay handles GET /api/flights/{origin}/{destination}/{outbound}.
func (h *FlightsHandler) HandleOneWay(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, quote.Query{
		Origin:      r.PathValue("origin"),
		Destination: r.PathValue("destination"),
		Outbound:    r.PathValue("outbound"),
	})
}

// HandleRoundTrip handles GET /api/flights/{origin}/{destination}/{outbound}/{inbound}.
func (h *FlightsHandler) HandleRoundTrip(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, quote.Query{
		Origin:      r.PathValue("origin"),
		Destination: r.PathValue("destination"),
		Outbound:    r.PathValue("outbound"),
		Inbound:     r.PathValue("inbound"),
	})
}

// serve relays the upstream body untouched, or the failure sentinel.
// Path values are not validated here; the provider judges them.
func (h *FlightsHandler) serve(w http.ResponseWriter, r *http.Request, q quote.Query) {
	ctx := r.Context()
	res, err := h.searcher.Search(ctx, q)
	if err != nil {
		h.logger.Warn(ctx, "answering with failure sentinel",
			logger.String("kind", string(q.Kind())),
			logger.Int("status", h.failureStatus),
			logger.Error(err),
		)
		metrics.RecordErrorByEndpoint("flights_"+string(q.Kind()), "upstream_failure")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(h.failureStatus)
		_, _ = w.Write([]byte(quote.FailureBody))
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Body); err != nil {
		h.logger.Debug(ctx, "client went away before body was written", logger.Error(err))
	}
}
