package sshkeys

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/ssh"
)

// PanelKeyName is the panel's own public key, excluded from box key
// selection.
const PanelKeyName = "id_rsa.pub"

type Key struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

// Inventory lists the public keys available for box registration from a
// directory on disk.
type Inventory struct {
	dir string
}

func NewInventory(dir string) *Inventory {
	return &Inventory{dir: dir}
}

// List returns the selectable keys sorted by name. Dotfiles and the panel's
// own key are skipped. Files that do not parse as authorized_keys entries are
// listed by name only.
func (inv *Inventory) List() ([]Key, error) {
	entries, err := os.ReadDir(inv.dir)
	if err != nil {
		return nil, err
	}
	var keys []Key
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || name == PanelKeyName {
			continue
		}
		key := Key{Name: name}
		if data, err := os.ReadFile(filepath.Join(inv.dir, name)); err == nil {
			if pub, comment, _, _, err := ssh.ParseAuthorizedKey(data); err == nil {
				key.Type = pub.Type()
				key.Fingerprint = ssh.FingerprintSHA256(pub)
				key.Comment = comment
			}
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys, nil
}

// Exists reports whether a named key is selectable.
func (inv *Inventory) Exists(name string) bool {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.HasPrefix(name, ".") || name == PanelKeyName {
		return false
	}
	info, err := os.Stat(filepath.Join(inv.dir, name))
	return err == nil && !info.IsDir()
}
