package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/similarity"
)

func result(id, sender, domain string, sim float64) similarity.Result {
	return similarity.Result{
		Candidate:  incident.Normalized{ID: id, Sender: sender, SenderDomain: domain},
		Similarity: sim,
	}
}

func ids(results []similarity.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Candidate.ID)
	}
	return out
}

func TestOutcome_Values(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{NoIncidents, "no_incidents"},
		{NoTextFields, "no_text_fields"},
		{TooShort, "too_short"},
		{NoDuplicate, "no_duplicate"},
		{BelowThreshold, "below_threshold"},
		{Duplicate, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, string(tt.outcome))
			assert.Equal(t, tt.outcome == Duplicate, tt.outcome.IsDuplicate())
		})
	}
}

func TestParseSenderPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    SenderPolicy
		wantErr bool
	}{
		{"TextOnly", TextOnly, false},
		{"textonly", TextOnly, false},
		{"EXACT", Exact, false},
		{" Domain ", Domain, false},
		{"", TextOnly, true},
		{"sender", TextOnly, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSenderPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSenderPolicy_Text(t *testing.T) {
	b, err := Domain.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Domain", string(b))

	var p SenderPolicy
	require.NoError(t, p.UnmarshalText([]byte("exact")))
	assert.Equal(t, Exact, p)
	assert.Error(t, p.UnmarshalText([]byte("nope")))

	_, err = SenderPolicy(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "SenderPolicy(9)", SenderPolicy(9).String())
}

func TestFilter(t *testing.T) {
	results := []similarity.Result{
		result("1", "a@x.com", "x.com", 0.5),
		result("2", "b@x.com", "x.com", 0.6),
		result("3", "", "", 0.7),
		result("4", "a@y.com", "y.com", 0.8),
	}

	t.Run("text only keeps all", func(t *testing.T) {
		cur := incident.Normalized{Sender: "a@x.com", SenderDomain: "x.com"}
		assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Filter(cur, results, TextOnly)))
	})

	t.Run("exact", func(t *testing.T) {
		cur := incident.Normalized{Sender: "a@x.com", SenderDomain: "x.com"}
		assert.Equal(t, []string{"1"}, ids(Filter(cur, results, Exact)))
	})

	t.Run("domain", func(t *testing.T) {
		cur := incident.Normalized{Sender: "c@x.com", SenderDomain: "x.com"}
		assert.Equal(t, []string{"1", "2"}, ids(Filter(cur, results, Domain)))
	})

	t.Run("empty sender matches nothing", func(t *testing.T) {
		cur := incident.Normalized{}
		assert.Empty(t, Filter(cur, results, Exact))
		assert.Empty(t, Filter(cur, results, Domain))
	})
}

func TestBest_TiesGoToEarliest(t *testing.T) {
	best, ok := Best([]similarity.Result{
		result("1", "", "", 0.4),
		result("2", "", "", 0.9),
		result("3", "", "", 0.9),
	})
	require.True(t, ok)
	assert.Equal(t, "2", best.Candidate.ID)

	_, ok = Best(nil)
	assert.False(t, ok)
}

func TestDecide(t *testing.T) {
	cur := incident.Normalized{ID: "new", Sender: "a@x.com", SenderDomain: "x.com"}

	t.Run("nothing to compare", func(t *testing.T) {
		d := Decide(cur, nil, TextOnly, DefaultThreshold)
		assert.Equal(t, NoDuplicate, d.Outcome)
		assert.Nil(t, d.Match)
	})

	t.Run("policy removes everything", func(t *testing.T) {
		d := Decide(cur, []similarity.Result{result("1", "z@q.com", "q.com", 1)}, Domain, DefaultThreshold)
		assert.Equal(t, NoDuplicate, d.Outcome)
	})

	t.Run("duplicate at threshold", func(t *testing.T) {
		d := Decide(cur, []similarity.Result{result("1", "", "", 0.99)}, TextOnly, 0.99)
		assert.Equal(t, Duplicate, d.Outcome)
		require.NotNil(t, d.Match)
		assert.Equal(t, "1", d.Match.ID)
		assert.True(t, d.Outcome.IsDuplicate())
	})

	t.Run("below threshold", func(t *testing.T) {
		d := Decide(cur, []similarity.Result{
			result("1", "", "", 0.72),
			result("2", "", "", 0.75),
		}, TextOnly, 0.99)
		assert.Equal(t, BelowThreshold, d.Outcome)
		require.NotNil(t, d.Match)
		assert.Equal(t, "2", d.Match.ID)
		assert.InDelta(t, 0.75, d.Similarity, 1e-12)
		assert.False(t, d.Outcome.IsDuplicate())
	})

	t.Run("policy picks a lower scoring match", func(t *testing.T) {
		d := Decide(cur, []similarity.Result{
			result("1", "other@y.com", "y.com", 1.0),
			result("2", "a@x.com", "x.com", 0.995),
		}, Exact, 0.99)
		assert.Equal(t, Duplicate, d.Outcome)
		assert.Equal(t, "2", d.Match.ID)
	})
}

func TestDecide_ThresholdMonotonic(t *testing.T) {
	cur := incident.Normalized{ID: "new"}
	results := []similarity.Result{
		result("1", "", "", 0.31),
		result("2", "", "", 0.87),
		result("3", "", "", 0.64),
	}

	thresholds := []float64{1, 0.95, 0.9, 0.87, 0.8, 0.5, 0.1, 0}
	seenDuplicate := false
	for _, th := range thresholds {
		d := Decide(cur, results, TextOnly, th)
		if seenDuplicate {
			assert.Equal(t, Duplicate, d.Outcome, "lowering threshold to %.2f must keep the duplicate", th)
		}
		if d.Outcome == Duplicate {
			seenDuplicate = true
			assert.Equal(t, "2", d.Match.ID)
		}
	}
	assert.True(t, seenDuplicate)
}
