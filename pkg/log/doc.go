/*
Package log provides structured logging for snaprag using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging with
component-specific loggers, configurable log levels, and helper functions for
common logging patterns. All logs include timestamps and support filtering by
severity level for production debugging.

# Architecture

snaprag's logging system provides structured JSON logging with minimal overhead:

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance                         │          │
	│  │  - Initialized via log.Init()               │          │
	│  │  - Thread-safe for concurrent use           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: debug/info/warn/error             │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Output: stdout, file, or custom writer   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Component Loggers                   │          │
	│  │  - WithComponent("syncer")                  │          │
	│  │  - WithShard(3)                             │          │
	│  │  - WithBatch(3, 918200)                     │          │
	│  │  - WithFID(12345)                           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │            Log Output                       │          │
	│  │                                              │          │
	│  │  JSON Format:                               │          │
	│  │  {                                           │          │
	│  │    "level": "info",                         │          │
	│  │    "component": "syncer",                   │          │
	│  │    "shard_id": 3,                           │          │
	│  │    "time": "2026-07-31T10:30:00Z",         │          │
	│  │    "message": "batch flushed"                │          │
	│  │  }                                           │          │
	│  │                                              │          │
	│  │  Console Format:                            │          │
	│  │  10:30AM INF batch flushed component=syncer shard_id=3 │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Accessible from all snaprag packages
  - Thread-safe concurrent writes

Log Levels:
  - Debug: Detailed debugging information
  - Info: General informational messages
  - Warn: Warning messages (potential issues)
  - Error: Error messages (operation failed)
  - Fatal: Critical errors (process exits)

Configuration:
  - Level: Filter messages below threshold
  - JSONOutput: JSON vs human-readable console
  - Output: io.Writer for log destination (stdout, file)

Context Loggers:
  - WithComponent: Add component name to all logs
  - WithShard: Add shard_id context to a shard poller's logs
  - WithBatch: Add shard_id + height context to a flush's logs
  - WithFID: Add fid context to per-user operations

# Usage

Initializing the Logger:

	import "github.com/snaprag/snaprag/pkg/log"

	// JSON output (production)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

	// Console output (development)
	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: false,
		Output:     os.Stdout,
	})

Simple Logging:

	log.Info("sync started")
	log.Debug("polling shard for new blocks")
	log.Warn("shard node returned an empty chunk")
	log.Error("failed to connect to shard node")
	log.Fatal("cannot start without a database connection") // exits process

Component and Scoped Loggers:

	syncLog := log.WithComponent("syncer")
	syncLog.Info().Msg("starting shard poll loop")

	shardLog := log.WithShard(3)
	shardLog.Debug().Uint64("height", 918200).Msg("polled block range")

	batchLog := log.WithBatch(3, 918250)
	batchLog.Info().Int("casts", 412).Dur("elapsed", elapsed).Msg("batch flushed")

	fidLog := log.WithFID(12345)
	fidLog.Warn().Err(err).Msg("profile projection query failed")

# Integration Points

This package integrates with:

  - pkg/sync: logs per-shard poll iterations and flush outcomes
  - pkg/storage: logs flush transactions and migration steps
  - pkg/embedder: logs backfill scan progress and embedding failures
  - pkg/shardrpc: logs node RPC dial/retry attempts
  - pkg/api: logs HTTP request handling
  - pkg/lifecycle: logs lock acquisition, heartbeat, and shutdown

# Best Practices

Do:
  - Use Info level for production
  - Use structured fields for queryable data
  - Create component- or shard-scoped loggers for long-running loops
  - Log errors with .Err() for stack traces

Don't:
  - Log sensitive data (database credentials, RPC auth tokens)
  - Use Debug level in production
  - Log per-message in tight ingestion loops (log per-batch instead)
  - Concatenate strings (use .Str, .Int, .Uint64)

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
*/
package log
