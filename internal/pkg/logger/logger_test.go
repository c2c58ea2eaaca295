package logger

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		log, err := New("debug", env)
		if err != nil {
			t.Fatalf("New(%q): %v", env, err)
		}
		if !log.Core().Enabled(zap.DebugLevel) {
			t.Fatalf("%s: expected debug level enabled", env)
		}
	}

	if _, err := New("loud", "local"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestWithActionAndFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = WithAction(ctx, "GenerateStudyPlan")
	ctx = AddFields(ctx, zap.String("surah", "Al-Fatiha"))
	ctxzap.Info(ctx, "hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["action"] != "GenerateStudyPlan" || fields["surah"] != "Al-Fatiha" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"short":            "*****",
		"AIzaSyExampleKey": "AIza...ey",
	}
	for in, want := range cases {
		if got := Mask(in); got != want {
			t.Fatalf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}
