package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoggerTagsSceneID(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	ctx := ContextWithSceneID(context.Background(), "scene-42")
	log.Info(ctx, "frame built", Int("nodes", 8), Err(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{`"scene_id":"scene-42"`, `"nodes":8`, `"error":"boom"`, `"msg":"frame built"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %s", out, want)
		}
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info record written at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestFromContextFallsBack(t *testing.T) {
	if _, ok := FromContext(context.Background(), nil).(noopLogger); !ok {
		t.Fatalf("expected noop logger when nothing is configured")
	}

	l := New(Config{})
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx, nil) != l {
		t.Fatalf("FromContext did not return stored logger")
	}
}
