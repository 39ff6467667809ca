package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/okian/flightgate/internal/adapters/upstream"
	service "github.com/okian/flightgate/internal/app"
	"github.com/okian/flightgate/internal/domain/quote"
	"github.com/okian/flightgate/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeFetcher struct {
	mu      sync.Mutex
	queries []quote.Query
	result  quote.Result
	err     error
}

func (f *fakeFetcher) Fetch(_ context.Context, q quote.Query) (quote.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.result, f.err
}

func newTracer() (*tracetest.SpanRecorder, service.Option) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	return rec, service.WithTracer(tp.Tracer("test"))
}

func TestService_New(t *testing.T) {
	Convey("Given no fetcher", t, func() {
		svc, err := service.New()

		Convey("Then construction fails", func() {
			So(svc, ShouldBeNil)
			So(errors.Is(err, service.ErrNoFetcher), ShouldBeTrue)
		})
	})

	Convey("Given a fetcher", t, func() {
		svc, err := service.New(service.WithFetcher(&fakeFetcher{}))
		So(err, ShouldBeNil)
		So(svc, ShouldNotBeNil)
	})
}

func TestService_Search(t *testing.T) {
	Convey("Given a service over a fake fetcher", t, func() {
		fetcher := &fakeFetcher{result: quote.Result{Body: []byte(`{"Quotes":[]}`), ContentType: "application/json"}}
		rec, withTracer := newTracer()
		svc, err := service.New(service.WithFetcher(fetcher), withTracer)
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When searching a round trip", func() {
			q := quote.Query{Origin: "JFK", Destination: "LAX", Outbound: "2023-05-01", Inbound: "2023-05-10"}
			res, err := svc.Search(ctx, q)

			Convey("Then the fetcher is called once with the query untouched", func() {
				So(err, ShouldBeNil)
				So(fetcher.queries, ShouldResemble, []quote.Query{q})
				So(string(res.Body), ShouldEqual, `{"Quotes":[]}`)
			})

			Convey("And a client span is recorded with the trip kind", func() {
				spans := rec.Ended()
				So(len(spans), ShouldEqual, 1)
				So(spans[0].Name(), ShouldEqual, "upstream.browse_quotes")
				attrs := map[string]string{}
				for _, kv := range spans[0].Attributes() {
					attrs[string(kv.Key)] = kv.Value.Emit()
				}
				So(attrs["flight.kind"], ShouldEqual, "round_trip")
				So(attrs["flight.inbound"], ShouldEqual, "2023-05-10")
			})
		})

		Convey("When the fetcher fails", func() {
			fetcher.err = fmt.Errorf("%w: send request: connection refused", upstream.ErrUpstreamCall)
			_, err := svc.Search(ctx, quote.Query{Origin: "JFK", Destination: "LAX", Outbound: "2023-05-01"})

			Convey("Then the error is returned unchanged and the span is marked failed", func() {
				So(errors.Is(err, upstream.ErrUpstreamCall), ShouldBeTrue)
				spans := rec.Ended()
				So(len(spans), ShouldEqual, 1)
				So(spans[0].Status().Code, ShouldEqual, codes.Error)
				So(spans[0].Status().Description, ShouldEqual, "transport_error")
			})
		})

		Convey("When the fetcher reports a status error", func() {
			fetcher.err = &upstream.StatusError{Code: http.StatusTooManyRequests}
			_, err := svc.Search(ctx, quote.Query{Origin: "JFK", Destination: "LAX", Outbound: "2023-05-01"})

			So(err, ShouldNotBeNil)
			So(rec.Ended()[0].Status().Description, ShouldEqual, "status_error")
		})
	})
}

func TestService_SearchAgainstProvider(t *testing.T) {
	Convey("Given a service wired to a slow provider through the real client", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		client, err := upstream.New(srv.URL, upstream.WithTimeout(30*time.Millisecond))
		So(err, ShouldBeNil)
		rec, withTracer := newTracer()
		svc, err := service.New(service.WithFetcher(client), withTracer)
		So(err, ShouldBeNil)

		Convey("When the call times out", func() {
			_, err := svc.Search(context.Background(), quote.Query{Origin: "JFK", Destination: "LAX", Outbound: "2023-05-01"})

			Convey("Then it is classified as a timeout", func() {
				So(upstream.IsTimeout(err), ShouldBeTrue)
				So(rec.Ended()[0].Status().Description, ShouldEqual, "timeout")
			})
		})
	})
}
