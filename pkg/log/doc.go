/*
Package log provides structured logging for MongooseServer using zerolog.

It wraps zerolog to provide JSON or console structured logging with
component-specific child loggers and configurable log levels. All logs
include timestamps, and a usable console root logger exists before Init
is ever called, so library consumers and tests need no setup.

# Usage

Initializing the logger:

	import "github.com/cuemby/mongoose/pkg/log"

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Component loggers:

	agentLog := log.WithComponent("agent.processor-group-a")
	agentLog.Info().Msg("doWork cycle drained 12 events")

	pubLog := log.WithComponent("publisher.orders-feed")
	pubLog.Warn().Str("target", "agent-b").Msg("target queue full, dropping event")

Do:
  - Use component loggers rather than the bare global Logger wherever the
    call site has a fixed identity (an agent, a publisher, a processor group).
  - Use .Err(err) for error values so they carry structured context.

Don't:
  - Log on the hot publish/dispatch path at Info level; use Debug so it can
    be disabled under load without code changes.
*/
package log
