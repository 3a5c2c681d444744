package admin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/mongoose/pkg/admin"
)

func TestRegisterAndDispatchCommand(t *testing.T) {
	r := admin.New()
	var out []any
	r.RegisterCommand("echo", func(args []string, outSink, _ admin.OutputSink) {
		for _, a := range args {
			outSink(a)
		}
	})

	r.ProcessAdminCommandRequest(admin.Request{
		Command: "echo",
		Args:    []string{"hello", "world"},
		Out:     func(v any) { out = append(out, v) },
	})

	assert.Equal(t, []any{"hello", "world"}, out)
}

func TestUnknownCommandReportsToErrOut(t *testing.T) {
	r := admin.New()
	var errs []any
	r.ProcessAdminCommandRequest(admin.Request{
		Command: "missing",
		ErrOut:  func(v any) { errs = append(errs, v) },
	})

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].(string), "missing")
}

func TestCommandListIsSorted(t *testing.T) {
	r := admin.New()
	r.RegisterCommand("zeta", func([]string, admin.OutputSink, admin.OutputSink) {})
	r.RegisterCommand("alpha", func([]string, admin.OutputSink, admin.OutputSink) {})

	assert.Equal(t, []string{"alpha", "zeta"}, r.CommandList())
}

func TestPanickingHandlerIsRecoveredAndReported(t *testing.T) {
	r := admin.New()
	r.RegisterCommand("boom", func([]string, admin.OutputSink, admin.OutputSink) {
		panic("kaboom")
	})

	var errs []any
	r.ProcessAdminCommandRequest(admin.Request{
		Command: "boom",
		ErrOut:  func(v any) { errs = append(errs, v) },
	})

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].(string), "kaboom")
}
