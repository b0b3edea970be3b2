package scheduler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendlens/internal/service/generator"
)

func scriptInvoker(t *testing.T, body string) *generator.Invoker {
	t.Helper()
	script := filepath.Join(t.TempDir(), "gen.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return generator.NewInvoker(generator.Config{Bin: "/bin/sh", Script: script}, zap.NewNop())
}

func TestRefreshWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	inv := scriptInvoker(t, `echo '{"success":true,"data":[{"id":"fresh1","title":"refreshed"}]}'`)
	r := NewRefresher(inv, dir, "mass_real_notes.json", 5*time.Second, zap.NewNop())

	r.refresh()

	raw, err := os.ReadFile(filepath.Join(dir, "mass_real_notes.json"))
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "fresh1", records[0]["id"])
}

func TestRefreshFailureKeepsPreviousArtifact(t *testing.T) {
	dir := t.TempDir()
	prev := filepath.Join(dir, "mass_real_notes.json")
	require.NoError(t, os.WriteFile(prev, []byte(`[{"id":"old"}]`), 0o644))

	inv := scriptInvoker(t, "exit 1")
	r := NewRefresher(inv, dir, "mass_real_notes.json", 5*time.Second, zap.NewNop())

	r.refresh()

	raw, err := os.ReadFile(prev)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"old"}]`, string(raw))
}

func TestRefreshLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	inv := scriptInvoker(t, `echo '{"success":true,"data":[]}'`)
	r := NewRefresher(inv, dir, "notes.json", 5*time.Second, zap.NewNop())

	r.refresh()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.json", entries[0].Name())
}

func TestStartRequiresInvoker(t *testing.T) {
	r := NewRefresher(nil, t.TempDir(), "notes.json", time.Second, zap.NewNop())

	assert.Error(t, r.Start("@hourly"))
}

func TestStartRejectsBadSpec(t *testing.T) {
	inv := scriptInvoker(t, `echo '{"success":true,"data":[]}'`)
	r := NewRefresher(inv, t.TempDir(), "notes.json", time.Second, zap.NewNop())

	assert.Error(t, r.Start("not a cron spec"))
}

func TestScheduledRefreshRuns(t *testing.T) {
	dir := t.TempDir()
	inv := scriptInvoker(t, `echo '{"success":true,"data":[{"id":"tick"}]}'`)
	r := NewRefresher(inv, dir, "notes.json", 5*time.Second, zap.NewNop())

	require.NoError(t, r.Start("@every 100ms"))
	defer r.Stop()

	deadline := time.After(3 * time.Second)
	for {
		if _, err := os.Stat(filepath.Join(dir, "notes.json")); err == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("scheduled refresh never produced the artifact")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
