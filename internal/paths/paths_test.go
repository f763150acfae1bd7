package paths

import (
	"path/filepath"
	"testing"
)

// ///////////////////////////////////////////////
// ImageName Tests
// ///////////////////////////////////////////////

func TestImageName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{1, "image_0001.png"},
		{42, "image_0042.png"},
		{9999, "image_9999.png"},
		{10000, "image_10000.png"},
		{123456, "image_123456.png"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ImageName(tt.index); got != tt.want {
				t.Errorf("ImageName(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestImageNameMatchesGlob(t *testing.T) {
	for _, i := range []int{1, 500, 99999} {
		name := ImageName(i)
		ok, err := filepath.Match(ImageGlob, name)
		if err != nil {
			t.Fatalf("Match: %v", err)
		}
		if !ok {
			t.Errorf("%q does not match %q", name, ImageGlob)
		}
	}
}

// ///////////////////////////////////////////////
// OutputDir Method Tests
// ///////////////////////////////////////////////

func TestOutputDirMethods(t *testing.T) {
	root := filepath.Join("data", "images")
	d := OutputDir{Root: root}
	abs, _ := filepath.Abs("cache")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Image", d.Image(3), filepath.Join(root, "image_0003.png")},
		{"Resolve", d.Resolve(FontCacheDir), filepath.Join(root, ".fontcache")},
		{"Resolve empty", d.Resolve(""), ""},
		{"Resolve absolute", d.Resolve(abs), abs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}
