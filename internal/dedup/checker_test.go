// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package dedup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/phishdedup/internal/action"
	"github.com/davetashner/phishdedup/internal/decision"
	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/store"
)

const lureSubject = "Urgent: verify account!!"

var checkTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	records []incident.Record
	err     error
	queries []store.Query
	mu      sync.Mutex
}

func (f *fakeStore) Query(_ context.Context, q store.Query) ([]incident.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.records, f.err
}

type fakeSink struct {
	commands []action.Command
	err      error
}

func (f *fakeSink) CloseAsDuplicate(_ context.Context, cmd action.Command) error {
	if f.err != nil {
		return f.err
	}
	f.commands = append(f.commands, cmd)
	return nil
}

func email(id, created, from, subject, body string) incident.Record {
	return incident.Record{
		"id":           id,
		"created":      created,
		"emailfrom":    from,
		"emailsubject": subject,
		"emailbody":    body,
	}
}

func newChecker(s Settings, st store.Store, sink action.Sink) *Checker {
	return &Checker{Settings: s, Store: st, Sink: sink, Now: func() time.Time { return checkTime }}
}

func TestCheck_NoIncidents(t *testing.T) {
	sink := &fakeSink{}
	c := newChecker(DefaultSettings(), &fakeStore{}, sink)

	res, err := c.Check(context.Background(), email("9", "2024-05-01", "a@evil.com", lureSubject, "body text"))
	require.NoError(t, err)
	assert.Equal(t, decision.NoIncidents, res.Outcome)
	assert.Equal(t, "9", res.IncidentID)
	assert.Equal(t, "No duplicate incident found", res.Message())
	assert.Empty(t, sink.commands)
}

func TestCheck_NoTextFields(t *testing.T) {
	st := &fakeStore{records: []incident.Record{email("1", "2024-01-01", "", "s", "b")}}
	c := newChecker(DefaultSettings(), st, &fakeSink{})

	res, err := c.Check(context.Background(), incident.Record{"id": "9", "created": "2024-05-01", "emailfrom": "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, decision.NoTextFields, res.Outcome)
	assert.Equal(t,
		"No text fields were found within this incident: emailbody,emailbodyhtml,emailsubject.\nIncident will be created.",
		res.Message())
}

func TestCheck_TextFieldInCustomFieldsCounts(t *testing.T) {
	st := &fakeStore{records: []incident.Record{email("1", "2024-01-01", "", "s", "b")}}
	c := newChecker(DefaultSettings(), st, &fakeSink{})

	current := incident.Record{"id": "9", "created": "2024-05-01", "CustomFields": map[string]any{"emailsubject": nil}}
	res, err := c.Check(context.Background(), current)
	require.NoError(t, err)
	assert.Equal(t, decision.TooShort, res.Outcome)
}

func TestCheck_TooShort(t *testing.T) {
	st := &fakeStore{records: []incident.Record{email("1", "2024-01-01", "", lureSubject, "b")}}
	c := newChecker(DefaultSettings(), st, &fakeSink{})

	// "Hi" + " " + "there!!" is ten characters after normalization.
	res, err := c.Check(context.Background(), email("9", "2024-05-01", "", "Hi", "there!!"))
	require.NoError(t, err)
	assert.Equal(t, decision.TooShort, res.Outcome)
	assert.Equal(t,
		"Incident text after preprocessing is too short for deduplication. Incident will be created.",
		res.Message())
}

func TestCheck_DuplicateExactSender(t *testing.T) {
	from := "Security Team <security@evil.com>"
	earlier := email("41", "2024-05-01T08:00:00Z", from, lureSubject,
		"Your account was locked. Visit https://evil.com/unlock?track=AAA111 to restore access immediately.")
	current := email("42", "2024-05-02T08:00:00Z", from, lureSubject,
		"Your account was locked. Visit https://evil.com/unlock?track=BBB222 to restore access immediately.")

	s := DefaultSettings()
	s.Policy = decision.Exact
	sink := &fakeSink{}
	c := newChecker(s, &fakeStore{records: []incident.Record{earlier, current}}, sink)

	res, err := c.Check(context.Background(), current)
	require.NoError(t, err)
	assert.Equal(t, decision.Duplicate, res.Outcome)
	assert.Equal(t, "41", res.MatchID)
	assert.GreaterOrEqual(t, res.Similarity, 0.99)
	assert.Equal(t, 2, res.Queried)
	assert.Equal(t, 1, res.Compared, "the incident itself is excluded")

	require.Len(t, sink.commands, 1)
	cmd := sink.commands[0]
	assert.Equal(t, "42", cmd.IncidentID)
	assert.Equal(t, "41", cmd.DuplicateOf)
	assert.Equal(t, cmd.ID, res.CommandID)
	assert.Equal(t, checkTime, cmd.IssuedAt)
	assert.Equal(t,
		"Duplicate incidents found: #42, #41 with similarity of 100.0%. This incident will be closed and linked to 41.",
		res.Message())
}

func TestCheck_BelowThreshold(t *testing.T) {
	earlier := email("7", "2024-05-01T08:00:00Z", "x@evil.com", lureSubject,
		"Your mailbox had a new sign-in. Confirm your password today or your account will be locked by IT support.")
	current := email("8", "2024-05-02T08:00:00Z", "y@other.com", lureSubject,
		"Your mailbox storage is full. Confirm your password today or your account will be suspended and messages held.")

	sink := &fakeSink{}
	c := newChecker(DefaultSettings(), &fakeStore{records: []incident.Record{earlier}}, sink)

	res, err := c.Check(context.Background(), current)
	require.NoError(t, err)
	assert.Equal(t, decision.BelowThreshold, res.Outcome)
	assert.Equal(t, "7", res.MatchID)
	assert.InDelta(t, 0.6372074323130946, res.Similarity, 1e-9)
	assert.Empty(t, sink.commands)
	assert.Equal(t, "No duplicate incident found.\n"+
		"Most similar incident found is #7 with similarity of 63.7%.\n"+
		"The threshold for considering 2 incidents as duplicate is a similarity of 99.0%.\n"+
		"Thus these 2 incidents will not be considered as duplicate and current incident will be created.",
		res.Message())
}

func TestCheck_DomainPolicyFiltersSimilarCandidate(t *testing.T) {
	body := "Your account was locked. Visit https://evil.com/unlock to restore access immediately."
	earlier := email("1", "2024-05-01T08:00:00Z", "ops@other.com", lureSubject, body)
	current := email("2", "2024-05-02T08:00:00Z", "ops@mail.evil.com", lureSubject, body)

	s := DefaultSettings()
	s.Policy = decision.Domain
	sink := &fakeSink{}
	c := newChecker(s, &fakeStore{records: []incident.Record{earlier}}, sink)

	res, err := c.Check(context.Background(), current)
	require.NoError(t, err)
	assert.Equal(t, decision.NoDuplicate, res.Outcome)
	assert.Equal(t, 1, res.Compared)
	assert.Empty(t, res.MatchID)
	assert.Equal(t, "No duplicate incident found", res.Message())
	assert.Empty(t, sink.commands)

	s.Policy = decision.TextOnly
	res, err = newChecker(s, &fakeStore{records: []incident.Record{earlier}}, sink).Check(context.Background(), current)
	require.NoError(t, err)
	assert.Equal(t, decision.Duplicate, res.Outcome, "same pair is a duplicate when the sender is ignored")
}

func TestCheck_LaterIncidentsAreNotCandidates(t *testing.T) {
	body := "Your account was locked. Visit https://evil.com/unlock to restore access immediately."
	later := email("3", "2024-05-03T08:00:00Z", "", lureSubject, body)
	same := email("4", "2024-05-02T08:00:00Z", "", lureSubject, body)
	current := email("2", "2024-05-02T08:00:00Z", "", lureSubject, body)

	c := newChecker(DefaultSettings(), &fakeStore{records: []incident.Record{later, same}}, &fakeSink{})
	res, err := c.Check(context.Background(), current)
	require.NoError(t, err)
	assert.Equal(t, decision.NoDuplicate, res.Outcome)
	assert.Equal(t, 0, res.Compared)
}

func TestCheck_QueryFromSettings(t *testing.T) {
	st := &fakeStore{}
	s := DefaultSettings()
	s.Scope = store.ClosedOnly
	s.Fragment = "severity:high"
	c := newChecker(s, st, &fakeSink{})

	_, err := c.Check(context.Background(), email("1", "2024-05-01", "", "", ""))
	require.NoError(t, err)
	require.Len(t, st.queries, 1)
	q := st.queries[0]
	assert.Equal(t, "(severity:high) and (status:closed) and (type:Phishing)", q.String())
	assert.Equal(t, checkTime.Add(-100*24*time.Hour), q.From)
	assert.Equal(t, 1000, q.Limit)
}

func TestCheck_Errors(t *testing.T) {
	valid := email("2", "2024-05-02T08:00:00Z", "", lureSubject,
		"Your account was locked. Visit https://evil.com/unlock to restore access immediately.")

	t.Run("configuration", func(t *testing.T) {
		s := DefaultSettings()
		s.Threshold = 1.5
		s.Limit = -1
		st := &fakeStore{}
		_, err := newChecker(s, st, &fakeSink{}).Check(context.Background(), valid)
		require.ErrorIs(t, err, ErrConfiguration)
		assert.Contains(t, err.Error(), "threshold")
		assert.Contains(t, err.Error(), "limit")
		assert.Empty(t, st.queries, "nothing is queried with bad settings")
	})

	t.Run("unknown policy", func(t *testing.T) {
		s := DefaultSettings()
		s.Policy = decision.SenderPolicy(42)
		_, err := newChecker(s, &fakeStore{}, &fakeSink{}).Check(context.Background(), valid)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("unknown scope", func(t *testing.T) {
		s := DefaultSettings()
		s.Scope = store.StatusScope(7)
		_, err := newChecker(s, &fakeStore{}, &fakeSink{}).Check(context.Background(), valid)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("missing collaborators", func(t *testing.T) {
		_, err := (&Checker{Settings: DefaultSettings()}).Check(context.Background(), valid)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("backend query", func(t *testing.T) {
		st := &fakeStore{err: errors.New("timeout")}
		_, err := newChecker(DefaultSettings(), st, &fakeSink{}).Check(context.Background(), valid)
		require.ErrorIs(t, err, ErrBackendQuery)
		assert.Contains(t, err.Error(), "timeout")
	})

	t.Run("candidate data", func(t *testing.T) {
		bad := email("1", "last tuesday", "", lureSubject,
			"Your account was locked. Visit https://evil.com/unlock to restore access immediately.")
		st := &fakeStore{records: []incident.Record{bad}}
		_, err := newChecker(DefaultSettings(), st, &fakeSink{}).Check(context.Background(), valid)
		require.ErrorIs(t, err, ErrData)
		assert.Contains(t, err.Error(), "record 0")
	})

	t.Run("current incident data", func(t *testing.T) {
		bad := email("9", "not a time", "", lureSubject,
			"Your account was locked. Visit https://evil.com/unlock to restore access immediately.")
		st := &fakeStore{records: []incident.Record{valid}}
		_, err := newChecker(DefaultSettings(), st, &fakeSink{}).Check(context.Background(), bad)
		assert.ErrorIs(t, err, ErrData)
	})

	t.Run("backend action", func(t *testing.T) {
		earlier := email("1", "2024-05-01T08:00:00Z", "", lureSubject,
			"Your account was locked. Visit https://evil.com/unlock to restore access immediately.")
		sink := &fakeSink{err: errors.New("forbidden")}
		_, err := newChecker(DefaultSettings(), &fakeStore{records: []incident.Record{earlier}}, sink).
			Check(context.Background(), valid)
		require.ErrorIs(t, err, ErrBackendAction)
		assert.Contains(t, err.Error(), "forbidden")
	})
}

type failingSource struct{ err error }

func (f failingSource) Incident(context.Context) (incident.Record, error) { return nil, f.err }

func TestRun(t *testing.T) {
	body := "Your account was locked. Visit https://evil.com/unlock to restore access immediately."
	earlier := email("1", "2024-05-01T08:00:00Z", "", lureSubject, body)
	current := email("2", "2024-05-02T08:00:00Z", "", lureSubject, body)

	t.Run("record source", func(t *testing.T) {
		sink := &fakeSink{}
		c := newChecker(DefaultSettings(), &fakeStore{records: []incident.Record{earlier}}, sink)
		res, err := c.Run(context.Background(), RecordSource{Record: current})
		require.NoError(t, err)
		assert.Equal(t, decision.Duplicate, res.Outcome)
		assert.Len(t, sink.commands, 1)
	})

	t.Run("source failure", func(t *testing.T) {
		c := newChecker(DefaultSettings(), &fakeStore{records: []incident.Record{earlier}}, &fakeSink{})
		_, err := c.Run(context.Background(), failingSource{err: errors.New("gone")})
		assert.ErrorIs(t, err, ErrBackendQuery)
	})

	t.Run("source data failure keeps its class", func(t *testing.T) {
		c := newChecker(DefaultSettings(), &fakeStore{}, &fakeSink{})
		_, err := c.Run(context.Background(), failingSource{err: ErrData})
		assert.ErrorIs(t, err, ErrData)
		assert.NotErrorIs(t, err, ErrBackendQuery)
	})

	t.Run("store failure", func(t *testing.T) {
		c := newChecker(DefaultSettings(), &fakeStore{err: errors.New("down")}, &fakeSink{})
		_, err := c.Run(context.Background(), RecordSource{Record: current})
		assert.ErrorIs(t, err, ErrBackendQuery)
	})
}

func TestCheck_ConcurrentUse(t *testing.T) {
	body := "Your account was locked. Visit https://evil.com/unlock to restore access immediately."
	st := &fakeStore{records: []incident.Record{email("1", "2024-05-01T08:00:00Z", "", lureSubject, body)}}
	c := newChecker(DefaultSettings(), st, action.LogSink{})

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.Check(context.Background(), email("2", "2024-05-02T08:00:00Z", "", lureSubject, body))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()
	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, decision.Duplicate, res.Outcome)
		assert.Equal(t, results[0].Similarity, res.Similarity)
	}
}
