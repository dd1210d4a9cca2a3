package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"github.com/doomfront/doomfront/token"
)

// ManifestName is the file name of a project manifest.
const ManifestName = "doomfront.toml"

// Manifest describes one mod project.
type Manifest struct {
	Name string `toml:"name" json:"name" yaml:"name"`

	// IncludeRoots are directories, relative to the project root, that
	// include paths are also resolved against.
	IncludeRoots []string `toml:"include_roots,omitempty" json:"includeRoots,omitempty" yaml:"includeRoots,omitempty"`

	// Ignore holds glob patterns of paths to skip. "dir/**" skips a tree.
	Ignore []string `toml:"ignore,omitempty" json:"ignore,omitempty" yaml:"ignore,omitempty"`

	// Extensions maps extra extensions or lump names to dialect names.
	Extensions map[string]string `toml:"extensions,omitempty" json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// Builtins adds engine type names that must not be reported as
	// unresolved, such as classes from a base game archive.
	Builtins []string `toml:"builtins,omitempty" json:"builtins,omitempty" yaml:"builtins,omitempty"`

	// Unknown lists keys in the file that were not recognised.
	Unknown []string `toml:"-" json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// LoadManifest reads the manifest at the root of a project. A missing
// manifest yields an empty one named after the directory.
func LoadManifest(root string) (*Manifest, error) {
	root, err := homedir.Expand(root)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(root, ManifestName)
	m := &Manifest{}
	md, err := toml.DecodeFile(path, m)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			abs, _ := filepath.Abs(root)
			return &Manifest{Name: filepath.Base(abs)}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		m.Unknown = append(m.Unknown, key.String())
	}
	sort.Strings(m.Unknown)
	if m.Name == "" {
		abs, _ := filepath.Abs(root)
		m.Name = filepath.Base(abs)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks the extension table and the ignore patterns.
func (m *Manifest) Validate() error {
	if _, err := m.ExtensionTable(nil); err != nil {
		return err
	}
	for _, pat := range m.Ignore {
		glob, _ := strings.CutSuffix(pat, "/**")
		if _, err := path.Match(glob, ""); err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pat, err)
		}
	}
	return nil
}

// Save writes the manifest to the root of a project.
func (m *Manifest) Save(root string) error {
	f, err := os.Create(filepath.Join(root, ManifestName))
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return nil
}

// ExtensionTable overlays the manifest's extensions on base, or on
// token.DefaultExtensions when base is nil.
func (m *Manifest) ExtensionTable(base map[string]token.Dialect) (map[string]token.Dialect, error) {
	if base == nil {
		base = token.DefaultExtensions
	}
	extra, err := extensionTable(m.Extensions)
	if err != nil {
		return nil, err
	}
	table := make(map[string]token.Dialect, len(base)+len(extra))
	for k, d := range base {
		table[k] = d
	}
	for k := range m.Extensions {
		k = strings.ToLower(k)
		table[k] = extra[k]
	}
	return table, nil
}
