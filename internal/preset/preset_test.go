package preset

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `default: daily-news
presets:
  - name: daily-news
    description: Two-host news rundown
    host_voice: voice-rachel
    guest_voice: voice-josh
    pause_ms: 300
  - name: deep-dive
    host_voice: voice-domi
    guest_voice: voice-adam
`

func TestLoadAndValidate(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "voices.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(f); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(f.Presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(f.Presets))
	}
}

func TestValidateMissingFields(t *testing.T) {
	cases := []struct {
		name string
		file File
	}{
		{"no presets", File{}},
		{"missing host voice", File{Presets: []Preset{{Name: "x", GuestVoice: "g"}}}},
		{"missing guest voice", File{Presets: []Preset{{Name: "x", HostVoice: "h"}}}},
		{"duplicate name", File{Presets: []Preset{
			{Name: "x", HostVoice: "h", GuestVoice: "g"},
			{Name: "x", HostVoice: "h2", GuestVoice: "g2"},
		}}},
		{"unknown default", File{Default: "missing", Presets: []Preset{{Name: "x", HostVoice: "h", GuestVoice: "g"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate(tc.file); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLookup(t *testing.T) {
	f := File{
		Default: "daily-news",
		Presets: []Preset{
			{Name: "daily-news", HostVoice: "h1", GuestVoice: "g1"},
			{Name: "deep-dive", HostVoice: "h2", GuestVoice: "g2"},
		},
	}

	p, err := Lookup(f, "")
	if err != nil {
		t.Fatalf("lookup default: %v", err)
	}
	if p.Name != "daily-news" {
		t.Fatalf("expected default preset, got %q", p.Name)
	}

	p, err = Lookup(f, "deep-dive")
	if err != nil {
		t.Fatalf("lookup named: %v", err)
	}
	if p.HostVoice != "h2" {
		t.Fatalf("unexpected preset %+v", p)
	}

	if _, err := Lookup(f, "nope"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}
