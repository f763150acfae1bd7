// Package main implements the genconfig tool that writes config.default.toml
// from config.ExampleConfig().
//
// It is invoked by go generate via the directive in internal/config/config.go.
package main

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"tools.zach/dev/fixturegen/internal/config"
)

// outPath is relative to internal/config, where go generate runs. The root
// package embeds the file from there.
const outPath = "../../config.default.toml"

func main() {
	out, err := annotate(config.ExampleConfig(), config.ConfigDocs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "genconfig: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Println("wrote config.default.toml")
}

// annotate encodes cfg and interleaves the comments from docs. Documented
// keys the encoder left out (omitempty with a zero value) are appended to
// their section as comments.
func annotate(cfg *config.Config, docs map[string]config.FieldDoc) (string, error) {
	var raw bytes.Buffer
	if err := toml.NewEncoder(&raw).Encode(cfg); err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	w := &writer{docs: docs, emitted: map[string]bool{}}
	w.lines = append(w.lines,
		"# ///////////////////////////////////////////////",
		"# fixturegen Configuration",
		"# ///////////////////////////////////////////////",
		"",
	)

	for _, line := range strings.Split(raw.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			// spacing is managed here, not by the encoder
		case strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[["):
			w.flushOmitted()
			section := strings.Trim(trimmed, "[] ")
			w.section = parseSectionPath(section)
			w.lines = append(w.lines, "", fmt.Sprintf("# ///// %s /////", sectionName(section)), "")
			if doc, ok := docs[section]; ok {
				w.comment(doc.Comment)
			}
			w.lines = append(w.lines, trimmed)
		case !strings.Contains(trimmed, "=") || strings.HasPrefix(trimmed, "#"):
			w.lines = append(w.lines, trimmed)
		default:
			w.field(trimmed)
		}
	}
	w.flushOmitted()

	return strings.TrimRight(strings.Join(w.lines, "\n"), "\n") + "\n", nil
}

// writer accumulates output lines while tracking the current section.
type writer struct {
	docs    map[string]config.FieldDoc
	lines   []string
	section []string
	emitted map[string]bool
}

func (w *writer) path(key string) string {
	if len(w.section) == 0 {
		return key
	}
	return strings.Join(w.section, ".") + "." + key
}

// comment writes text as "# " lines. Blank lines become a bare "#".
func (w *writer) comment(text string) {
	if text == "" {
		return
	}
	for _, cl := range strings.Split(text, "\n") {
		if cl == "" {
			w.lines = append(w.lines, "#")
			continue
		}
		w.lines = append(w.lines, "# "+cl)
	}
}

func (w *writer) field(line string) {
	key := strings.TrimSpace(strings.SplitN(line, "=", 2)[0])
	full := w.path(key)
	w.emitted[full] = true

	doc, ok := w.docs[full]
	w.comment(doc.Comment)
	w.lines = append(w.lines, line)
	if ok {
		for _, alt := range doc.Alternatives {
			w.lines = append(w.lines, "# "+alt)
		}
	}
}

// flushOmitted appends documented keys of the current section that the
// encoder did not emit, sorted for deterministic output.
func (w *writer) flushOmitted() {
	if len(w.section) == 0 {
		return
	}
	prefix := strings.Join(w.section, ".") + "."

	var omitted []string
	for path := range w.docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, ".") || w.emitted[path] {
			continue
		}
		omitted = append(omitted, path)
	}
	slices.Sort(omitted)

	for _, path := range omitted {
		doc := w.docs[path]
		w.lines = append(w.lines, "")
		w.comment(doc.Comment)
		for _, alt := range doc.Alternatives {
			w.lines = append(w.lines, "# "+alt)
		}
		w.emitted[path] = true
	}
}

// parseSectionPath splits a dotted TOML section header ("log.file") into its
// segments.
func parseSectionPath(section string) []string {
	return strings.Split(section, ".")
}

// sectionName capitalizes the last dotted segment of a section header.
func sectionName(section string) string {
	parts := strings.Split(section, ".")
	last := parts[len(parts)-1]
	if len(last) == 0 {
		return ""
	}
	return strings.ToUpper(last[:1]) + last[1:]
}
