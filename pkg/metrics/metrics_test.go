package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordItemCreated()
	c.RecordDecision("approve")
	c.RecordDecision("approve")
	c.RecordDecision("reject")
	c.RecordReaction("heart")
	c.RecordComment()
	c.RecordSighting()
	c.RecordHTTPRequest("GET", 200)
	c.RecordHTTPRequest("GET", 404)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.itemsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.decisions.WithLabelValues("approve")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("reject")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reactions.WithLabelValues("heart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "404")))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"lostfound_items_created_total",
		"lostfound_moderation_decisions_total",
		"lostfound_reactions_total",
		"lostfound_comments_total",
		"lostfound_sightings_total",
		"lostfound_http_requests_total",
	}, names)
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordReaction("pray")
}
