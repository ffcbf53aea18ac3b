package store

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"janus-hq/janus/pkg/policy"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFile_ValidPolicies(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "finance.yaml", `
policies:
  - id: payments-small-allow
    description: Small payments go through.
    level: agent
    subject: finance-*
    action: payment.execute
    resource: bank
    effect: allow
    match:
      amount_max: 999
    priority: 10
  - id: exports-deny
    level: enterprise
    action: data.export
    effect: deny
`)

	loader := NewLoader(nil)
	policies, skipped, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}
	if len(policies) != 2 {
		t.Fatalf("loaded %d policies, want 2", len(policies))
	}

	p := policies[0]
	if p.ID != "payments-small-allow" || p.Level != policy.LevelAgent ||
		p.Subject != "finance-*" || p.Effect != policy.EffectAllow || p.Priority != 10 {
		t.Errorf("first policy = %+v", p)
	}
	if got := p.Match["amount_max"]; got != 999 {
		t.Errorf("match amount_max = %v (%T), want 999", got, got)
	}
	if p.SourceFile != path {
		t.Errorf("SourceFile = %q, want %q", p.SourceFile, path)
	}
}

func TestLoadFile_SchemaDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "min.yaml", `
policies:
  - id: bare
    action: read
`)

	loader := NewLoader(nil)
	policies, _, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	p := policies[0]

	if p.Subject != "*" {
		t.Errorf("Subject = %q, want *", p.Subject)
	}
	if p.Resource != "*" {
		t.Errorf("Resource = %q, want *", p.Resource)
	}
	if p.Effect != policy.EffectDeny {
		t.Errorf("Effect = %v, want deny (conservative default)", p.Effect)
	}
	if p.Level != policy.LevelAgent {
		t.Errorf("Level = %v, want agent", p.Level)
	}
	if p.Priority != policy.DefaultPriority {
		t.Errorf("Priority = %d, want %d", p.Priority, policy.DefaultPriority)
	}
	if p.Match == nil || len(p.Match) != 0 {
		t.Errorf("Match = %v, want empty map", p.Match)
	}
}

func TestLoadFile_ExplicitPriorityZero(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p0.yaml", `
policies:
  - id: most-urgent
    action: "*"
    effect: deny
    priority: 0
`)

	loader := NewLoader(nil)
	policies, _, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if policies[0].Priority != 0 {
		t.Errorf("Priority = %d, want 0 (explicit zero is not the unset default)", policies[0].Priority)
	}
}

func TestLoadFile_SkipsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mixed.yaml", `
policies:
  - description: no id here
    action: read
  - id: no-action
    effect: allow
  - id: bad-effect
    action: read
    effect: maybe
  - id: bad-level
    action: read
    level: galaxy
  - id: negative-priority
    action: read
    priority: -1
  - id: survivor
    action: read
    effect: allow
`)

	loader := NewLoader(nil)
	policies, skipped, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(policies) != 1 || policies[0].ID != "survivor" {
		t.Fatalf("policies = %v, want only survivor", policies)
	}
	if len(skipped) != 5 {
		t.Fatalf("skipped %d entries, want 5: %v", len(skipped), skipped)
	}
	// Skip records carry the entry position within the source.
	if want := path + "#0"; skipped[0].Source != want {
		t.Errorf("skipped[0].Source = %q, want %q", skipped[0].Source, want)
	}
	for _, sk := range skipped {
		if sk.Reason == "" {
			t.Errorf("skip record %q has no reason", sk.Source)
		}
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantSub string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(dir, "nope.yaml") },
			wantSub: "file not found",
		},
		{
			name: "malformed yaml",
			path: func(t *testing.T) string {
				return writeFile(t, dir, "broken.yaml", "policies:\n  - id: [unclosed\n")
			},
			wantSub: "invalid YAML",
		},
		{
			name: "invalid utf-8",
			path: func(t *testing.T) string {
				p := filepath.Join(dir, "binary.yaml")
				if err := os.WriteFile(p, []byte{0xff, 0xfe, 0x00, 0x01}, 0o644); err != nil {
					t.Fatal(err)
				}
				return p
			},
			wantSub: "invalid UTF-8",
		},
		{
			name:    "directory not regular file",
			path:    func(t *testing.T) string { return dir },
			wantSub: "not a regular file",
		},
	}

	loader := NewLoader(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loader.LoadFile(tt.path(t))
			if err == nil {
				t.Fatal("LoadFile succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadFile_SizeLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.yaml", strings.Repeat("# padding\n", 20))

	loader := NewLoader(&LoaderConfig{
		MaxFileSize:       16,
		AllowedExtensions: []string{".yaml"},
	})
	_, _, err := loader.LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error = %v, want size limit error", err)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "policies: []\n")
	writeFile(t, dir, "a.yml", "policies: []\n")
	writeFile(t, dir, "sub/c.yaml", "policies: []\n")
	writeFile(t, dir, "notes.txt", "not a policy\n")
	writeFile(t, dir, ".hidden.yaml", "policies: []\n")
	writeFile(t, dir, ".git/config.yaml", "policies: []\n")
	writeFile(t, dir, "old.disabled.yaml", "policies: []\n")
	writeFile(t, dir, "archive.disabled/d.yaml", "policies: []\n")

	loader := NewLoader(nil)
	files, err := loader.CollectFiles(dir)
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.yaml"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("CollectFiles = %v, want %v (lexical order, disabled and hidden excluded)", files, want)
	}
}

func TestCollectFiles_Errors(t *testing.T) {
	loader := NewLoader(nil)

	if _, err := loader.CollectFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("CollectFiles on missing directory succeeded, want error")
	}

	file := writeFile(t, t.TempDir(), "x.yaml", "policies: []\n")
	if _, err := loader.CollectFiles(file); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("CollectFiles on a file: error = %v, want not-a-directory", err)
	}
}
