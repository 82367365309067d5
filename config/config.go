// Package config persists the grabber channel selection as "channel=<xmltv id>" lines.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/renameio/v2"

	"sfr-epg/version"
)

var (
	// ErrNotConfigured is returned when the configuration file does not exist.
	ErrNotConfigured = errors.New("grabber is not configured")
	// ErrNoChannels is returned when the configuration file selects no channel.
	ErrNoChannels = errors.New("configuration selects no channel")
)

var channelLine = regexp.MustCompile(`^\s*channel\s*=\s*(.+?)\s*$`)

// DefaultPath is ~/.xmltv/tv_grab_fr_sfr.conf.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".xmltv", version.Program+".conf")
}

// Parse returns the channel IDs of r in file order. Other lines are ignored.
func Parse(r io.Reader) ([]string, error) {
	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if m := channelLine.FindStringSubmatch(sc.Text()); m != nil {
			ids = append(ids, m[1])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Read loads the channel IDs from path.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotConfigured, path)
		}
		return nil, err
	}
	defer f.Close()

	ids, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChannels, path)
	}
	return ids, nil
}

// Write replaces path with one "channel=" line per ID, creating its directory if needed.
func Write(path string, ids []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	var buf bytes.Buffer
	for _, id := range ids {
		fmt.Fprintf(&buf, "channel=%s\n", id)
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
