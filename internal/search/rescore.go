package search

import (
	"math"

	"github.com/roach88/esq/internal/dsl"
)

// ScoreModes is the set of ways a rescore combines the original and the
// rescore query scores.
var ScoreModes = dsl.NewEnum("total", "multiply", "min", "max", "avg")

// Rescore reorders the top window_size hits of each shard with a second,
// usually more expensive, query:
//
//	{"window_size": n, "query": {"rescore_query": {...}, "query_weight": w, ...}}
type Rescore struct {
	dsl.RescoreMixin
}

// NewRescore returns a rescore over windowSize hits using q. A nil q leaves
// the rescore query unset.
func NewRescore(windowSize int, q dsl.Query) *Rescore {
	r := newRescore()
	r.Body()["window_size"] = windowSize
	return r.SetRescoreQuery(q)
}

// BuildRescore is NewRescore for values of unknown type: windowSize must be
// an integer and q a Query. Either may be nil to leave it unset.
func BuildRescore(windowSize, q any) (*Rescore, error) {
	r := newRescore()
	if !dsl.IsNil(windowSize) {
		n, ok := dsl.AsInt(windowSize)
		if !ok {
			return nil, &dsl.TypeError{Op: "rescore.window_size", Want: "integer", Got: windowSize}
		}
		r.Body()["window_size"] = n
	}
	if err := r.AssignRescoreQuery(q); err != nil {
		return nil, err
	}
	return r, nil
}

func newRescore() *Rescore {
	r := &Rescore{RescoreMixin: dsl.NewRescoreMixin()}
	r.Body()["query"] = dsl.Object{}
	return r
}

func (r *Rescore) query() dsl.Object { return r.Body().Child("query") }

// SetWindowSize sets how many hits per shard are rescored.
func (r *Rescore) SetWindowSize(size int) *Rescore {
	r.Body()["window_size"] = size
	return r
}

// WindowSize returns window_size, if set.
func (r *Rescore) WindowSize() (int, bool) { return dsl.Lookup[int](r.Body(), "window_size") }

// SetRescoreQuery sets the query used for rescoring.
func (r *Rescore) SetRescoreQuery(q dsl.Query) *Rescore {
	if !dsl.IsNil(q) {
		r.query()["rescore_query"] = dsl.CloneObject(q.Document())
	}
	return r
}

// AssignRescoreQuery is the runtime-checked form of SetRescoreQuery.
func (r *Rescore) AssignRescoreQuery(v any) error {
	return dsl.AssignSingle(r.query(), "rescore_query", "rescore.rescore_query", "Query", dsl.IsQuery, v)
}

// RescoreQuery returns the rescore query document, if set.
func (r *Rescore) RescoreQuery() (dsl.Object, bool) {
	return dsl.Lookup[dsl.Object](r.query(), "rescore_query")
}

func (r *Rescore) setWeight(key string, w float64) (*Rescore, error) {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return r, &dsl.TypeError{Op: "rescore." + key, Want: "Number", Got: w}
	}
	r.query()[key] = w
	return r, nil
}

// SetQueryWeight sets the weight of the original query score.
// NaN and infinities are rejected.
func (r *Rescore) SetQueryWeight(w float64) (*Rescore, error) { return r.setWeight("query_weight", w) }

// QueryWeight returns query_weight, if set.
func (r *Rescore) QueryWeight() (float64, bool) {
	return dsl.Lookup[float64](r.query(), "query_weight")
}

// SetRescoreQueryWeight sets the weight of the rescore query score.
// NaN and infinities are rejected.
func (r *Rescore) SetRescoreQueryWeight(w float64) (*Rescore, error) {
	return r.setWeight("rescore_query_weight", w)
}

// RescoreQueryWeight returns rescore_query_weight, if set.
func (r *Rescore) RescoreQueryWeight() (float64, bool) {
	return dsl.Lookup[float64](r.query(), "rescore_query_weight")
}

// SetScoreMode sets how scores are combined, one of ScoreModes.
// Other values are ignored.
func (r *Rescore) SetScoreMode(mode string) *Rescore {
	if m, ok := ScoreModes.Normalize(mode); ok {
		r.query()["score_mode"] = m
	}
	return r
}

// ScoreMode returns score_mode, if set.
func (r *Rescore) ScoreMode() (string, bool) { return dsl.Lookup[string](r.query(), "score_mode") }
