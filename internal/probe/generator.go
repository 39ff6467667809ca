package probe

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/okian/flightgate/internal/domain/quote"
)

const (
	dateLayout     = "2006-01-02"
	maxLeadDays    = 60
	maxStayDays    = 14
	roundTripEvery = 2
)

// Airports is the fixed pool queries are drawn from.
var Airports = []string{"JFK", "LAX", "SFO", "ORD", "SEA", "BOS", "MIA", "DFW", "LHR", "CDG"}

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// WithReturnLegs follows every round trip with the one-way search for its
// return leg, as the search page does.
func WithReturnLegs(queries []quote.Query) []quote.Query {
	out := make([]quote.Query, 0, len(queries)+len(queries)/roundTripEvery)
	for _, q := range queries {
		out = append(out, q)
		if q.Kind() == quote.RoundTrip {
			out = append(out, q.Return())
		}
	}
	return out
}

// Generate returns n queries with departures after now. Every other query is
// a round trip returning 1 to maxStayDays days after departure.
func Generate(n int, now time.Time) []quote.Query {
	queries := make([]quote.Query, n)
	for i := range queries {
		o := randomInt(len(Airports))
		d := (o + 1 + randomInt(len(Airports)-1)) % len(Airports)
		out := now.AddDate(0, 0, 1+randomInt(maxLeadDays))

		q := quote.Query{
			Origin:      Airports[o],
			Destination: Airports[d],
			Outbound:    out.Format(dateLayout),
		}
		if i%roundTripEvery == 1 {
			q.Inbound = out.AddDate(0, 0, 1+randomInt(maxStayDays)).Format(dateLayout)
		}
		queries[i] = q
	}
	return queries
}
