package fontsrc

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// builtinFonts maps logical names to the Go fonts compiled into the binary.
var builtinFonts = map[string][]byte{
	"regular": goregular.TTF,
	"bold":    gobold.TTF,
	"medium":  gomedium.TTF,
	"mono":    gomono.TTF,
}

// BuiltinNames returns the accepted logical names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinFonts))
	for n := range builtinFonts {
		names = append(names, builtinPrefix+n)
	}
	sort.Strings(names)
	return names
}

// Builtin serves one of the Go fonts. It never touches the filesystem.
type Builtin struct {
	name   string
	data   []byte
	parsed parsedFont
}

// NewBuiltin returns the builtin source for name ("regular", "bold", ...).
func NewBuiltin(name string) (*Builtin, error) {
	data, ok := builtinFonts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown builtin font %q: must be one of %s", name, strings.Join(BuiltinNames(), ", "))
	}
	return &Builtin{name: strings.ToLower(name), data: data}, nil
}

func (b *Builtin) Name() string { return builtinPrefix + b.name }

func (b *Builtin) Load(size int) (font.Face, error) {
	f, err := b.parsed.get(func() ([]byte, error) { return b.data, nil })
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return face(f, size)
}
