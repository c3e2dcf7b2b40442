package stream

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisplayFromConfigUsesDataDir(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "alice", "files"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "alice", "files", "cat.png"), []byte("png"), 0o644))

	cfg := DefaultConfig()
	cfg.DataDir = dataDir
	cfg.BaseURL = "https://cloud.example.com"
	display, err := NewDisplayFromConfig(cfg, BootstrapOptions{Renderer: &stubRenderer{}})
	require.NoError(t, err)

	vm := display.ViewModel(context.Background(), ActivityRecord{AffectedUser: "alice", File: "/cat.png"})
	assert.Equal(t, "https://cloud.example.com/index.php/core/preview.png?file=%2Fcat.png&x=150&y=150", vm.PreviewImageLink)
	assert.Equal(t, "https://cloud.example.com/index.php/apps/files?dir=%2F&scrollto=cat.png", vm.PreviewLink)
}

func TestNewDisplayFromConfigLoadsIconDir(t *testing.T) {
	iconDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(iconDir, "folder.svg"), []byte("<svg/>"), 0o644))

	cfg := DefaultConfig()
	cfg.Icons.Dir = iconDir
	cfg.Icons.Prefix = "/icons"
	display, err := NewDisplayFromConfig(cfg, BootstrapOptions{Files: &stubFileView{dirs: map[string]bool{"/Photos": true}}})
	require.NoError(t, err)

	vm := display.ViewModel(context.Background(), ActivityRecord{AffectedUser: "alice", File: "/Photos"})
	assert.Equal(t, "/icons/folder.svg", vm.PreviewImageLink)
}

func TestNewDisplayFromConfigRejectsMissingIconDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Icons.Dir = filepath.Join(t.TempDir(), "missing")
	_, err := NewDisplayFromConfig(cfg, BootstrapOptions{})
	require.Error(t, err)
}
