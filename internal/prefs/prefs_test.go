package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load("")
	if !p.DarkMode {
		t.Fatalf("DarkMode = false, want true by default")
	}
	if p.Identity.Known() {
		t.Fatalf("Identity = %+v, want empty", p.Identity)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "naotimes")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	content := "dark_mode = false\n\n[identity]\nid = \"42\"\nusername = \"nao\"\nprivilege = \"owner\"\n"
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.DarkMode {
		t.Fatalf("DarkMode = true, want false")
	}
	want := Identity{ID: "42", Username: "nao", Privilege: "owner"}
	if p.Identity != want {
		t.Fatalf("Identity = %+v, want %+v", p.Identity, want)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("[identity]\nid = \"7\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(path)
	if !p.DarkMode {
		t.Fatalf("DarkMode = false, want default true when key is absent")
	}
	if p.Identity.ID != "7" {
		t.Fatalf("Identity.ID = %q, want 7", p.Identity.ID)
	}
}

func TestLoad_InvalidTOMLUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("dark_mode = [invalid"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(path)
	if p != Default() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}

func TestSave_CreatesDirectoryAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.toml")

	want := Prefs{DarkMode: false, Identity: Identity{ID: "1", Username: "a"}}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := Load(path); got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestUpdate_StoresIdentityAndKeepsTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(path, Prefs{DarkMode: false}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	err := Update(path, func(p *Prefs) {
		p.Identity = IdentityFrom(naotimes.Identity{ID: "9", Username: "nao", Privilege: "admin"})
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got := Load(path)
	if got.DarkMode {
		t.Fatalf("DarkMode = true, want preserved false")
	}
	if !got.Identity.Known() || got.Identity.Username != "nao" {
		t.Fatalf("Identity = %+v", got.Identity)
	}
}
