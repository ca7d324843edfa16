// Package player hands a resolved media URL to an external player.
// Players are started with exec.CommandContext and an explicit argument
// slice; nothing passes through a shell.
package player

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"vidresolve/internal/media"
)

// Options carries what the CDN expects from the client.
type Options struct {
	Title     string
	UserAgent string
	Referer   string
}

// Player is the interface for media player implementations.
type Player interface {
	// Name returns the player binary name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool

	// Args builds the command line for mediaURL.
	Args(mediaURL string, opts Options) []string
}

// Names lists the supported players.
var Names = []string{"mpv", "vlc", "iina", "celluloid"}

// New creates a player by name. Unknown names fall back to mpv.
func New(name string) Player {
	switch name {
	case "vlc":
		return vlc{}
	case "iina", "celluloid":
		return mpvCompatible{name: name}
	default:
		return mpvCompatible{name: "mpv"}
	}
}

// Play runs p on the result's media URL and waits for it to exit.
// A non-zero exit (user closed the window) is not an error.
func Play(ctx context.Context, p Player, res *media.Result, opts Options) error {
	if !p.Available() {
		return fmt.Errorf("%s not found in PATH", p.Name())
	}

	cmd := exec.CommandContext(ctx, p.Name(), p.Args(res.MediaURL, opts)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return fmt.Errorf("running %s: %w", p.Name(), err)
	}
	return nil
}

// mpvCompatible covers mpv and front-ends that accept mpv flags.
type mpvCompatible struct {
	name string
}

func (m mpvCompatible) Name() string { return m.name }

func (m mpvCompatible) Available() bool {
	_, err := exec.LookPath(m.name)
	return err == nil
}

func (m mpvCompatible) Args(mediaURL string, opts Options) []string {
	args := []string{mediaURL, "--really-quiet"}
	if opts.Title != "" {
		args = append(args, "--force-media-title="+opts.Title)
	}
	if opts.UserAgent != "" {
		args = append(args, "--user-agent="+opts.UserAgent)
	}
	if opts.Referer != "" {
		args = append(args, "--referrer="+opts.Referer)
	}
	return args
}

type vlc struct{}

func (vlc) Name() string { return "vlc" }

func (vlc) Available() bool {
	_, err := exec.LookPath("vlc")
	return err == nil
}

func (vlc) Args(mediaURL string, opts Options) []string {
	args := []string{mediaURL, "--play-and-exit"}
	if opts.Title != "" {
		args = append(args, "--meta-title", opts.Title)
	}
	if opts.UserAgent != "" {
		args = append(args, "--http-user-agent", opts.UserAgent)
	}
	if opts.Referer != "" {
		args = append(args, "--http-referrer", opts.Referer)
	}
	return args
}
