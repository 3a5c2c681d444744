package errreport_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/mongoose/pkg/errreport"
)

func TestReportFansOutToListeners(t *testing.T) {
	r := errreport.New()
	var seen []errreport.ReportedEvent
	r.AddListener(func(ev errreport.ReportedEvent) { seen = append(seen, ev) })

	r.Report(errreport.ReportedEvent{
		Severity: errreport.Error,
		Source:   "group-a",
		Message:  "queue full",
		Err:      errors.New("would block"),
	})

	require.Len(t, seen, 1)
	assert.Equal(t, "group-a", seen[0].Source)
	assert.False(t, seen[0].Timestamp.IsZero(), "report stamps a timestamp when the caller left it zero")
}

func TestRemoveListenerStopsDelivery(t *testing.T) {
	r := errreport.New()
	var count int
	remove := r.AddListener(func(errreport.ReportedEvent) { count++ })

	r.Report(errreport.ReportedEvent{Severity: errreport.Info, Message: "one"})
	remove()
	r.Report(errreport.ReportedEvent{Severity: errreport.Info, Message: "two"})

	assert.Equal(t, 1, count)
}

func TestRecentReturnsBoundedHistoryInOrder(t *testing.T) {
	r := errreport.New()
	for i := 0; i < 150; i++ {
		r.Report(errreport.ReportedEvent{Severity: errreport.Info, Message: fmt.Sprintf("ev-%d", i)})
	}

	all := r.Recent(0)
	require.Len(t, all, 100, "history is bounded at 100 entries")
	assert.Equal(t, "ev-50", all[0].Message, "oldest surviving entry")
	assert.Equal(t, "ev-149", all[99].Message, "newest entry last, insertion order preserved")

	last3 := r.Recent(3)
	require.Len(t, last3, 3)
	assert.Equal(t, "ev-147", last3[0].Message)
}

func TestSeverityStrings(t *testing.T) {
	assert.Equal(t, "INFO", errreport.Info.String())
	assert.Equal(t, "WARNING", errreport.Warning.String())
	assert.Equal(t, "ERROR", errreport.Error.String())
	assert.Equal(t, "CRITICAL", errreport.Critical.String())
}
