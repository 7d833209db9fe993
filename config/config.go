// Package config handles ylang.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "ylang.toml"

// File represents a ylang.toml configuration.
type File struct {
	Runtime  Runtime        `toml:"runtime"`
	Bindings map[string]any `toml:"bindings"`
	Log      Log            `toml:"log"`
	Image    Image          `toml:"image"`

	// Dir is the directory containing the ylang.toml file (set at load time).
	Dir string `toml:"-"`
}

// Runtime configures the symbol table and its initial contents.
type Runtime struct {
	ObarrayCapacity int      `toml:"obarray-capacity"`
	Preload         []string `toml:"preload"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Image configures snapshot locations.
type Image struct {
	Output string `toml:"output"`
	Store  string `toml:"store"`
}

// Default returns the configuration used when no ylang.toml exists.
func Default() *File {
	f := &File{}
	f.applyDefaults()
	return f
}

func (f *File) applyDefaults() {
	if f.Runtime.ObarrayCapacity <= 0 {
		f.Runtime.ObarrayCapacity = 256
	}
	if f.Image.Output == "" {
		f.Image.Output = "ylang.image"
	}
	if f.Image.Store == "" {
		f.Image.Store = "ylang.db"
	}
}

// Load parses the ylang.toml file in dir.
func Load(dir string) (*File, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: cannot read %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse error in %s: %w", path, err)
	}

	f.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("config: cannot resolve path %s: %w", path, err)
	}
	f.applyDefaults()
	return &f, nil
}

// FindAndLoad walks up from startDir to find a ylang.toml file and loads
// it. Returns nil if none is found.
func FindAndLoad(startDir string) (*File, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// ImagePath resolves the snapshot output path against Dir.
func (f *File) ImagePath() string {
	return f.resolve(f.Image.Output)
}

// StorePath resolves the snapshot store path against Dir.
func (f *File) StorePath() string {
	return f.resolve(f.Image.Store)
}

func (f *File) resolve(p string) string {
	if filepath.IsAbs(p) || f.Dir == "" {
		return p
	}
	return filepath.Join(f.Dir, p)
}
