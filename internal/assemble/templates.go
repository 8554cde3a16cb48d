package assemble

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed templates
var defaultTemplates embed.FS

// Loader resolves template files. A configured directory takes precedence;
// the embedded defaults back every name so a missing directory still works.
type Loader struct {
	dir string
}

// NewLoader creates a loader. dir may be empty to use only the embedded set.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load returns the named template, e.g. "post.html" or "base.css".
func (l *Loader) Load(name string) (string, error) {
	if l.dir != "" {
		data, err := os.ReadFile(filepath.Join(l.dir, name))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read template %s: %w", name, err)
		}
	}
	data, err := defaultTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("unknown template %s: %w", name, err)
	}
	return string(data), nil
}
