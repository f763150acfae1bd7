// Package paths centralizes file and directory names used across the project.
// Output artifact naming is defined here as the single source of truth so
// the generator, the stale-file sweep and the tests agree on it.
package paths

import (
	"fmt"
	"path/filepath"
)

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

const (
	// ImagePrefix and ImageExt frame the zero-padded index of every artifact.
	ImagePrefix = "image_"
	ImageExt    = ".png"
	// ImageGlob matches every artifact name produced by [ImageName].
	ImageGlob = ImagePrefix + "*" + ImageExt

	ConfigFile    = "fixturegen.toml"
	FontCacheDir  = ".fontcache"
	DefaultOutDir = "images"
)

// ImageName returns the artifact file name for a 1-based index, zero-padded
// to at least four digits: ImageName(7) returns "image_0007.png" and
// ImageName(12345) returns "image_12345.png".
func ImageName(index int) string {
	return fmt.Sprintf("%s%04d%s", ImagePrefix, index, ImageExt)
}

// ///////////////////////////////////////////////
// OutputDir
// ///////////////////////////////////////////////

// OutputDir provides path construction methods rooted at an output directory.
type OutputDir struct {
	Root string
}

// Image returns the full path to the artifact for index.
func (d OutputDir) Image(index int) string { return filepath.Join(d.Root, ImageName(index)) }

// Resolve places a configured relative path under Root. Absolute and empty
// paths are returned unchanged.
func (d OutputDir) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.Root, p)
}
