package probe

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/flightgate/internal/adapters/http/api"
	"github.com/okian/flightgate/internal/domain/quote"
	"github.com/okian/flightgate/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// alternatingSearcher fails every second call.
type alternatingSearcher struct {
	calls    int64
	oneWay   int64
	roundTrp int64
}

func (s *alternatingSearcher) Search(_ context.Context, q quote.Query) (quote.Result, error) {
	if q.Kind() == quote.RoundTrip {
		atomic.AddInt64(&s.roundTrp, 1)
	} else {
		atomic.AddInt64(&s.oneWay, 1)
	}
	if atomic.AddInt64(&s.calls, 1)%2 == 0 {
		return quote.Result{}, errors.New("upstream down")
	}
	return quote.Result{Body: []byte(`{"Quotes":[]}`), ContentType: "application/json"}, nil
}

func newGateway(s api.Searcher) *httptest.Server {
	server := api.NewServer(s)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return httptest.NewServer(server.Handler(mux))
}

func TestGenerate(t *testing.T) {
	Convey("Given a generation time", t, func() {
		now := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

		Convey("When generating queries", func() {
			queries := Generate(20, now)

			Convey("Then every query is well formed", func() {
				So(queries, ShouldHaveLength, 20)
				for i, q := range queries {
					So(q.Origin, ShouldNotEqual, q.Destination)
					So(q.Outbound, ShouldBeGreaterThan, "2023-05-01")
					if i%2 == 1 {
						So(q.Kind(), ShouldEqual, quote.RoundTrip)
						So(q.Inbound, ShouldBeGreaterThan, q.Outbound)
					} else {
						So(q.Kind(), ShouldEqual, quote.OneWay)
					}
				}
			})
		})
	})
}

func TestWithReturnLegs(t *testing.T) {
	Convey("Given a one-way and a round-trip query", t, func() {
		oneWay := quote.Query{Origin: "SEA", Destination: "BOS", Outbound: "2023-06-01"}
		roundTrip := quote.Query{Origin: "JFK", Destination: "LAX", Outbound: "2023-05-01", Inbound: "2023-05-10"}

		Convey("Then only the round trip is followed by its return leg", func() {
			got := WithReturnLegs([]quote.Query{oneWay, roundTrip})
			So(got, ShouldHaveLength, 3)
			So(got[0], ShouldResemble, oneWay)
			So(got[1], ShouldResemble, roundTrip)
			So(got[2], ShouldResemble, quote.Query{Origin: "LAX", Destination: "JFK", Outbound: "2023-05-10"})
			So(Path(got[2]), ShouldEqual, "/api/flights/LAX/JFK/2023-05-10")
		})
	})
}

func TestPath(t *testing.T) {
	Convey("Path builds gateway routes", t, func() {
		So(Path(quote.Query{Origin: "JFK", Destination: "LAX", Outbound: "2023-05-01"}),
			ShouldEqual, "/api/flights/JFK/LAX/2023-05-01")
		So(Path(quote.Query{Origin: "JFK", Destination: "LAX", Outbound: "2023-05-01", Inbound: "2023-05-10"}),
			ShouldEqual, "/api/flights/JFK/LAX/2023-05-01/2023-05-10")
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running gateway", t, func() {
		searcher := &alternatingSearcher{}
		gw := newGateway(searcher)
		defer gw.Close()

		Convey("When probing it", func() {
			stats, err := Run(context.Background(), &Config{
				BaseURL: gw.URL,
				Queries: 10,
				Workers: 3,
				Timeout: 5 * time.Second,
			})

			Convey("Then passthroughs and sentinels are tallied", func() {
				So(err, ShouldBeNil)
				So(stats.Generated, ShouldEqual, 10)
				So(stats.ReturnLegs, ShouldEqual, 5)
				So(stats.Sent, ShouldEqual, 15)
				So(stats.Passthrough, ShouldEqual, 8)
				So(stats.Sentinel, ShouldEqual, 7)
				So(stats.Failed, ShouldEqual, 0)
				So(atomic.LoadInt64(&searcher.oneWay), ShouldEqual, 10)
				So(atomic.LoadInt64(&searcher.roundTrp), ShouldEqual, 5)
			})
		})
	})

	Convey("Given a server that is not a gateway", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				w.WriteHeader(http.StatusOK)
				return
			}
			http.NotFound(w, r)
		}))
		defer srv.Close()

		Convey("Then unexpected statuses count as failures", func() {
			stats, err := Run(context.Background(), &Config{BaseURL: srv.URL, Queries: 4, Workers: 2, Timeout: time.Second})
			So(errors.Is(err, ErrTransportFailures), ShouldBeTrue)
			So(stats.Failed, ShouldEqual, 6)
		})
	})

	Convey("Given an unreachable gateway", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		Convey("Then the health check fails", func() {
			_, err := Run(context.Background(), &Config{BaseURL: addr, Queries: 1, Workers: 1, Timeout: time.Second})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})

	Convey("Given an invalid config", t, func() {
		_, err := Run(context.Background(), &Config{BaseURL: "http://localhost", Queries: 0, Workers: 1})
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)

		_, err = Run(context.Background(), nil)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestShowHelp(t *testing.T) {
	Convey("ShowHelp lists every flag", t, func() {
		var buf bytes.Buffer
		ShowHelp(&buf)
		for _, flag := range []string{"-url", "-queries", "-workers", "-timeout", "-verbose"} {
			So(strings.Contains(buf.String(), flag), ShouldBeTrue)
		}
	})
}
