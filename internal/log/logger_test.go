package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return logger, &buf
}

func TestLoggerStampsComponent(t *testing.T) {
	logger, buf := newBufferLogger(ComponentApp)
	logger.Info("hello")
	if !strings.Contains(buf.String(), "component=app") {
		t.Fatalf("missing component stamp in %q", buf.String())
	}
}

func TestWithComponentChangesStamp(t *testing.T) {
	logger, buf := newBufferLogger(ComponentApp)
	logger.WithComponent(ComponentHTTP).Warn("slow request")
	if !strings.Contains(buf.String(), "component=http") {
		t.Fatalf("missing http component in %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger, buf := newBufferLogger(ComponentWorker)
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Info("sync done")
	if !strings.Contains(buf.String(), "component=worker") {
		t.Fatalf("context logger not used: %q", buf.String())
	}

	// A bare context falls back to the default logger without panicking.
	FromContext(context.Background()).Debug("noop")
}
