package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// ErrUnsupported reports a container that carries no ID3 tag.
var ErrUnsupported = errors.New("container does not support id3 tags")

// Supported reports whether path can carry an ID3 title.
func Supported(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

// WriteTitle stores title in the TIT2 frame of the mp3 at path, keeping other
// frames intact. Files without an existing tag receive a fresh one.
func WriteTitle(path, title string) error {
	if !Supported(path) {
		return fmt.Errorf("tag %s: %w", filepath.Base(path), ErrUnsupported)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("tag title required")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("tag %s: %w", filepath.Base(path), err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 tag: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(title)
	if err := tag.Save(); err != nil {
		return fmt.Errorf("save id3 tag: %w", err)
	}
	return nil
}

// ReadTitle returns the TIT2 frame of the mp3 at path.
func ReadTitle(path string) (string, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Title"}})
	if err != nil {
		return "", fmt.Errorf("open id3 tag: %w", err)
	}
	defer tag.Close()
	return tag.Title(), nil
}
