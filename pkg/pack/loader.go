package pack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions treated as hunt packs.
var Extensions = []string{".yaml", ".yml"}

// Load reads and decodes the hunt pack at path. It does not validate the
// pack; call Validate for that.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hunt pack: %w", err)
	}
	return LoadBytes(data, path)
}

// LoadBytes decodes a hunt pack from data. source names the origin in error
// messages and provides the pack name when the document has none.
func LoadBytes(data []byte, source string) (*Pack, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Pack
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: hunt pack is empty", source)
		}
		return nil, fmt.Errorf("%s: failed to parse hunt pack: %w", source, err)
	}

	if p.Name == "" {
		base := filepath.Base(source)
		p.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	p.Source = source

	return &p, nil
}

// Files returns the hunt pack files directly inside dir, sorted by name.
// Hidden files are skipped.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !hasPackExtension(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	return files, nil
}

func hasPackExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, valid := range Extensions {
		if ext == valid {
			return true
		}
	}
	return false
}
