package sshkeys

import (
	"os"
	"path/filepath"
	"testing"
)

// A throwaway ed25519 public key in authorized_keys format.
const samplePubKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAINz7j7aEVWy7WwoeV638kLYukfSQ1Wcui4JsuowSRkjG box@panel\n"

func writeKeyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"box-key.pub": samplePubKey,
		"legacy.pub":  "not an authorized_keys line",
		PanelKeyName:  samplePubKey,
		".hidden.pub": samplePubKey,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestInventoryList(t *testing.T) {
	inv := NewInventory(writeKeyDir(t))
	keys, err := inv.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 selectable keys, got %d: %+v", len(keys), keys)
	}
	if keys[0].Name != "box-key.pub" || keys[1].Name != "legacy.pub" {
		t.Fatalf("keys must be sorted by name: %+v", keys)
	}
	if keys[0].Type != "ssh-ed25519" || keys[0].Fingerprint == "" || keys[0].Comment != "box@panel" {
		t.Fatalf("parseable key must carry metadata: %+v", keys[0])
	}
	if keys[1].Type != "" || keys[1].Fingerprint != "" {
		t.Fatalf("unparseable key is listed by name only: %+v", keys[1])
	}
}

func TestInventoryExists(t *testing.T) {
	inv := NewInventory(writeKeyDir(t))
	if !inv.Exists("box-key.pub") {
		t.Fatalf("known key must exist")
	}
	for _, name := range []string{"", "missing.pub", PanelKeyName, ".hidden.pub", "../escape"} {
		if inv.Exists(name) {
			t.Errorf("Exists(%q) = true", name)
		}
	}
}

func TestInventoryMissingDir(t *testing.T) {
	inv := NewInventory(filepath.Join(t.TempDir(), "nope"))
	if _, err := inv.List(); err == nil {
		t.Fatalf("missing key dir must return an error")
	}
}
