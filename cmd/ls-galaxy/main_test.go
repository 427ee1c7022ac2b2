package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-galaxy/internal/catalog"
	"github.com/litescript/ls-galaxy/internal/logging"
	"github.com/litescript/ls-galaxy/internal/starfield"
)

func TestWatchable(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"", false},
		{catalog.SourceBuiltin, false},
		{catalog.SourceStdin, false},
		{"https://example.com/stars.csv", false},
		{"http://example.com/stars.csv", false},
		{"stars.csv", true},
		{"/data/gaia/bright.csv", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, watchable(tt.source), "watchable(%q)", tt.source)
	}
}

func TestWatchFile_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stars.csv")
	require.NoError(t, os.WriteFile(path, catalog.Builtin(), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan string, 4)
	stop, err := watchFile(ctx, path, logging.Discard(), func(reason string) {
		reloads <- reason
	})
	require.NoError(t, err)
	defer stop()

	// Unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, catalog.Builtin(), 0o644))

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatchFile_RejectsRemote(t *testing.T) {
	_, err := watchFile(context.Background(), "https://example.com/stars.csv", logging.Discard(), func(string) {})
	assert.Error(t, err)
}

func TestLoadField(t *testing.T) {
	loader := catalog.NewLoader()
	field, res, err := loadField(context.Background(), loader, catalog.SourceBuiltin, starfield.DefaultParams(), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, catalog.SourceBuiltin, res.Source)
	assert.Positive(t, field.Len())
	assert.LessOrEqual(t, field.Len(), len(res.Records))

	_, _, err = loadField(context.Background(), loader, filepath.Join(t.TempDir(), "missing.csv"), starfield.DefaultParams(), logging.Discard())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLodName(t *testing.T) {
	assert.Equal(t, "full", lodName(1))
	assert.Equal(t, "distance", lodName(0))
}

func TestLoadField_LogLine(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelInfo)
	log.SetOutput(&buf)

	field, res, err := loadField(context.Background(), catalog.NewLoader(), catalog.SourceBuiltin, starfield.DefaultParams(), log)
	require.NoError(t, err)

	want := fmt.Sprintf("Loaded %s: %d stars (%d rows skipped)", catalog.SourceBuiltin, field.Len(), res.Skipped)
	assert.Contains(t, buf.String(), want)
	assert.NotContains(t, buf.String(), "parallax")
}
