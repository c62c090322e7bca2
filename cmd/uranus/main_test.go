package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/uranus/internal/models"
)

func TestRootCommands(t *testing.T) {
	want := map[string]bool{"serve": false, "dashboard": false, "stats": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing %q command", name)
		}
	}

	if rootCmd.PersistentFlags().Lookup("env-file") == nil {
		t.Error("--env-file should be a persistent flag")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "uranus ") {
		t.Errorf("output = %q", out.String())
	}
}

func TestPrintStats(t *testing.T) {
	totals := &models.TotalStats{TotalCalls: 3, FailedCalls: 1, UniqueModels: 2, CostUSD: 0.0123, AvgLatencyMs: 812}
	calls := []models.InferenceCall{
		{Timestamp: time.Now(), ModelLabel: "Gemini 2.5 Flash", InputType: "url", LatencyMs: 900, TotalTokens: 120, Success: true},
		{Timestamp: time.Now(), ModelLabel: "Gemini Live Audio", InputType: "audio", LatencyMs: 1500, Error: "quota exceeded"},
	}

	var out bytes.Buffer
	if err := printStats(&out, totals, calls); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Calls:    3 (1 failed)", "$0.0123", "812ms average", "Gemini Live Audio", "quota exceeded", "STATUS"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
