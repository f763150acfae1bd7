package config

// ///////////////////////////////////////////////
// Documentation Types
// ///////////////////////////////////////////////

// FieldDoc holds documentation and alternative examples for a single config field.
// The genconfig tool uses [FieldDoc] values to annotate the generated config.default.toml.
type FieldDoc struct {
	// Comment is shown as a header comment above the field in the example config.
	Comment string

	// Alternatives are shown as commented-out lines below the active value.
	Alternatives []string
}

// ///////////////////////////////////////////////
// Field Documentation Map
// ///////////////////////////////////////////////

// ConfigDocs maps TOML field paths (dot-separated, e.g. "fonts.candidates")
// to their [FieldDoc] entries. Section paths ("generate") document the
// section header itself.
var ConfigDocs = map[string]FieldDoc{
	// ── Generate ─────────────────────────────────────────────────
	"generate": {
		Comment: "Every image is named image_NNNN.png (1-indexed) and shows its index centered.",
	},
	"generate.count": {
		Comment: "Number of images to produce.",
	},
	"generate.out_dir": {
		Comment: "Output directory. Created if missing; existing images are overwritten.",
	},
	"generate.min_dim": {
		Comment: "Width and height are drawn independently and uniformly from [min_dim, max_dim].",
	},
	"generate.max_dim": {},
	"generate.color": {
		Comment: "Label color as #RRGGBB or #RRGGBBAA. The background is always transparent.",
		Alternatives: []string{
			`color = "#FF0000"`,
		},
	},
	"generate.workers": {
		Comment: "Images rendered concurrently. 0 = one per CPU.",
	},
	"generate.seed": {
		Comment: "Fixes the sequence of canvas sizes. 0 = different sizes every run.",
		Alternatives: []string{
			`seed = 42`,
		},
	},

	// ── Fonts ────────────────────────────────────────────────────
	"fonts": {
		Comment: "Font sources are tried in order; the first one that loads is used.\nIf none load, a small built-in bitmap face is used instead.\n\nSource forms:\n  path or file name   \"arial.ttf\", \"/usr/share/fonts/DejaVuSans.ttf\", \"fonts/**/*.ttf\"\n  bundled Go fonts    \"go:regular\", \"go:bold\", \"go:medium\", \"go:mono\"\n  Google Fonts        \"google:Roboto\", \"google:Open Sans:700\"",
	},
	"fonts.preference": {
		Comment: "Tried before every candidate.",
		Alternatives: []string{
			`preference = "google:Roboto"`,
		},
	},
	"fonts.candidates": {},
	"fonts.cache_dir": {
		Comment: "Downloaded fonts are cached here. Relative paths live under out_dir; \"\" disables caching.",
	},

	// ── Log ──────────────────────────────────────────────────────
	"log.level": {
		Comment: "Options: \"trace\", \"debug\", \"info\", \"warn\", \"error\"\n  trace logs every committed image.",
		Alternatives: []string{
			`level = "debug"`,
		},
	},
	"log.file": {
		Comment: "Also write the log to this file, rotated at max_size_mb.",
		Alternatives: []string{
			`file = "fixturegen.log"`,
		},
	},
	"log.max_size_mb": {},
}
