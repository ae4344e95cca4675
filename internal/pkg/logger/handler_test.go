package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

func newJSONLogger(local, remote *bytes.Buffer) *log.Logger {
	tee := &TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(local, nil),
		&RemoteFilterHandler{next: log.NewJSONHandler(remote, nil)},
	}}
	return log.New(&ContextHandler{tee})
}

func TestContextHandlerAddsTraceAndUser(t *testing.T) {
	var local, remote bytes.Buffer
	l := newJSONLogger(&local, &remote)

	ctx := WithUserID(WithTraceID(context.Background(), "kafka"), 42)
	l.InfoContext(ctx, "activity tracked")

	var rec map[string]any
	if err := json.Unmarshal(local.Bytes(), &rec); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	traceID, _ := rec[TraceIDKey].(string)
	if !strings.HasPrefix(traceID, "kafka-") {
		t.Fatalf("trace_id = %q, want kafka- prefix", traceID)
	}
	if rec[UserIDKey] != float64(42) {
		t.Fatalf("user_id = %v, want 42", rec[UserIDKey])
	}
	if remote.Len() == 0 {
		t.Fatalf("traced record should reach remote handler")
	}
}

func TestRemoteFilterSkipsUntracedRecords(t *testing.T) {
	var local, remote bytes.Buffer
	l := newJSONLogger(&local, &remote)

	l.Info("server starting")
	if local.Len() == 0 {
		t.Fatalf("local handler should always receive records")
	}
	if remote.Len() != 0 {
		t.Fatalf("untraced record reached remote handler: %s", remote.String())
	}

	// WithAttrs 之后仍然生效
	l.With("component", "cron").Info("entries registered")
	if remote.Len() != 0 {
		t.Fatalf("untraced record reached remote handler after With: %s", remote.String())
	}
}

func TestTeeHandlerEnabled(t *testing.T) {
	tee := &TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(&bytes.Buffer{}, &log.HandlerOptions{Level: log.LevelError}),
		log.NewJSONHandler(&bytes.Buffer{}, &log.HandlerOptions{Level: log.LevelInfo}),
	}}
	if !tee.Enabled(context.Background(), log.LevelInfo) {
		t.Fatalf("Enabled(Info) = false, want true when any handler accepts it")
	}
	if tee.Enabled(context.Background(), log.LevelDebug) {
		t.Fatalf("Enabled(Debug) = true, want false")
	}
}

func TestRedisArgs(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cmd  redis.Cmder
		want string
	}{
		{"get", redis.NewStringCmd(ctx, "get", "gamification:leaderboard:points"), "[get gamification:leaderboard:points]"},
		{"auth", redis.NewStatusCmd(ctx, "auth", "secret"), "[PROTECTED]"},
		{"eval", redis.NewCmd(ctx, "eval", "if redis.call('get', KEYS[1]) ...", 1, "lock:gamification:user:7", "token"), "[lock:gamification:user:7]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redisArgs(tt.cmd); got != tt.want {
				t.Fatalf("redisArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}
