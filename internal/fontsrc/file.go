package fontsrc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/image/font"
)

// File loads a font from the local filesystem.
//
// The path is resolved once, on first use:
//  1. a path containing glob metacharacters is expanded (doublestar syntax,
//     so "**" recurses) and the first match in lexical order wins
//  2. an existing path is used as-is
//  3. a bare file name ("arial.ttf") is searched for in the platform's
//     font directories
type File struct {
	path   string
	parsed parsedFont
	// dirs overrides systemFontDirs in tests.
	dirs []string
}

// NewFile returns a file source for path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return f.path }

func (f *File) Load(size int) (font.Face, error) {
	parsed, err := f.parsed.get(f.read)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return face(parsed, size)
}

// read locates and reads the font file.
func (f *File) read() ([]byte, error) {
	path, err := f.locate()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("font file loaded", "source", f.path, "path", path)
	return data, nil
}

// locate resolves f.path to an existing file.
func (f *File) locate() (string, error) {
	if hasGlobMeta(f.path) {
		matches, err := doublestar.FilepathGlob(f.path, doublestar.WithFilesOnly())
		if err != nil {
			return "", fmt.Errorf("expand glob: %w", err)
		}
		if len(matches) == 0 {
			return "", fmt.Errorf("no file matches %q: %w", f.path, os.ErrNotExist)
		}
		sort.Strings(matches)
		return matches[0], nil
	}

	if _, err := os.Stat(f.path); err == nil {
		return f.path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if strings.ContainsAny(f.path, `/\`) {
		return "", fmt.Errorf("font file %q: %w", f.path, os.ErrNotExist)
	}

	dirs := f.dirs
	if dirs == nil {
		dirs = systemFontDirs()
	}
	for _, dir := range dirs {
		matches, err := doublestar.Glob(os.DirFS(dir), "**/"+f.path, doublestar.WithFilesOnly())
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return filepath.Join(dir, filepath.FromSlash(matches[0])), nil
	}
	return "", fmt.Errorf("font %q not found in system font directories: %w", f.path, os.ErrNotExist)
}

// hasGlobMeta reports whether path contains doublestar metacharacters.
func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// systemFontDirs returns the directories searched for bare font file names.
func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs = append(dirs, filepath.Join(windir, "Fonts"))
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	case "darwin":
		dirs = append(dirs, "/System/Library/Fonts", "/Library/Fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	default:
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		dirs = append(dirs, "/usr/local/share/fonts", "/usr/share/fonts")
	}
	return dirs
}
