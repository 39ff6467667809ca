// Package quote contains the flight quote query passed between layers.
package quote

// FailureBody is written in place of the upstream body whenever the
// upstream call fails, whatever the cause.
const FailureBody = "INTERNAL_SERVER_ERROR"

// Kind distinguishes one-way from round-trip searches.
type Kind string

const (
	OneWay    Kind = "one_way"
	RoundTrip Kind = "round_trip"
)

// Query is a browse-quotes search. Values are opaque to the gateway and are
// interpreted by the upstream provider only.
type Query struct {
	Origin      string // origin airport or city code, e.g. "JFK"
	Destination string // destination airport or city code
	Outbound    string // outbound partial date, e.g. "2023-05-01" or "2023-05"
	Inbound     string // inbound partial date; empty for one-way
}

// Kind reports whether q carries an inbound date.
func (q Query) Kind() Kind {
	if q.Inbound != "" {
		return RoundTrip
	}
	return OneWay
}

// Return is the one-way query for the return leg of a round trip: origin and
// destination swapped and the inbound date used as the outbound date.
func (q Query) Return() Query {
	return Query{
		Origin:      q.Destination,
		Destination: q.Origin,
		Outbound:    q.Inbound,
	}
}

// Result is the upstream response relayed to the caller untouched.
type Result struct {
	Body        []byte
	ContentType string
}
