package player

import (
	"context"
	"testing"

	"vidresolve/internal/media"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"mpv", "mpv"},
		{"vlc", "vlc"},
		{"iina", "iina"},
		{"celluloid", "celluloid"},
		{"notepad", "mpv"},
		{"", "mpv"},
	}
	for _, tt := range tests {
		if got := New(tt.name).Name(); got != tt.want {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMPVArgs(t *testing.T) {
	args := New("mpv").Args("https://cdn.example.com/play/clip.mp4", Options{
		Title:     "clip",
		UserAgent: "UA/1.0",
		Referer:   "https://www.example.com/",
	})
	want := []string{
		"https://cdn.example.com/play/clip.mp4",
		"--really-quiet",
		"--force-media-title=clip",
		"--user-agent=UA/1.0",
		"--referrer=https://www.example.com/",
	}
	if len(args) != len(want) {
		t.Fatalf("args = %q, want %q", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestVLCArgsKeepValuesSeparate(t *testing.T) {
	args := New("vlc").Args("https://cdn.example.com/play/clip.mp4", Options{UserAgent: "UA with spaces; rm -rf /"})
	found := false
	for i, a := range args {
		if a == "--http-user-agent" && i+1 < len(args) && args[i+1] == "UA with spaces; rm -rf /" {
			found = true
		}
	}
	if !found {
		t.Errorf("user agent should be its own argument, got %q", args)
	}
}

func TestPlayMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	err := Play(context.Background(), New("mpv"), &media.Result{MediaURL: "https://cdn.example.com/play/x.mp4"}, Options{})
	if err == nil {
		t.Error("expected error when player is not installed")
	}
}
