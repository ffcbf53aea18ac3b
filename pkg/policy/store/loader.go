package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"janus-hq/janus/pkg/policy"
)

// DisabledMarker is the path segment that excludes a policy source from
// directory loads (e.g. "finance.disabled.yaml" or a ".disabled/"
// directory).
const DisabledMarker = ".disabled"

// LoaderConfig contains configuration for the policy loader.
type LoaderConfig struct {
	// MaxFileSize is the maximum policy source size in bytes.
	MaxFileSize int64

	// AllowedExtensions is the list of source file extensions
	// (lowercase, with dot).
	AllowedExtensions []string

	// SkipHidden controls whether dotfiles and dot-directories are
	// skipped during discovery.
	SkipHidden bool
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		MaxFileSize:       1 << 20, // 1MB
		AllowedExtensions: []string{".yaml", ".yml"},
		SkipHidden:        true,
	}
}

// Skipped records one policy entry or source that was not loaded and
// why, for operator visibility.
type Skipped struct {
	// Source identifies the skipped source or entry
	// ("path" or "path#index").
	Source string `json:"source"`

	// Reason describes why it was skipped.
	Reason string `json:"reason"`
}

// Loader reads policy sources from the file system and builds validated
// policies.
type Loader struct {
	config *LoaderConfig
}

// NewLoader creates a policy loader with the given configuration.
func NewLoader(config *LoaderConfig) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &Loader{config: config}
}

// LoadFile loads a single policy source. Entries that fail validation
// are skipped and reported; the rest of the file still loads. The error
// return is non-nil only when the file itself could not be read or
// parsed.
func (l *Loader) LoadFile(path string) ([]*policy.Policy, []Skipped, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		if os.IsPermission(err) {
			return nil, nil, &LoadError{FilePath: path, Message: "permission denied", Cause: err}
		}
		return nil, nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}

	if !info.Mode().IsRegular() {
		return nil, nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}

	if info.Size() > l.config.MaxFileSize {
		return nil, nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), l.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}

	if !utf8.Valid(data) {
		return nil, nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	file, err := parsePolicyFile(data, path)
	if err != nil {
		return nil, nil, err
	}

	var (
		policies []*policy.Policy
		skipped  []Skipped
	)
	for i := range file.Policies {
		p, err := buildPolicy(&file.Policies[i], path, i)
		if err != nil {
			var source string
			if verr, ok := err.(*ValidationError); ok {
				source = verr.Source
			} else {
				source = fmt.Sprintf("%s#%d", path, i)
			}
			skipped = append(skipped, Skipped{Source: source, Reason: err.Error()})
			continue
		}
		policies = append(policies, p)
	}

	return policies, skipped, nil
}

// CollectFiles returns all loadable policy source paths under root, in
// lexical walk order so that load order (and therefore duplicate-id
// resolution) is deterministic. Sources with the disabled marker in
// their path and, when configured, hidden files are excluded.
func (l *Loader) CollectFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: root, Message: "directory not found", Cause: err}
		}
		return nil, &LoadError{FilePath: root, Message: "failed to access directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{FilePath: root, Message: "not a directory"}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if l.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.Contains(path, DisabledMarker) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !l.hasValidExtension(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, &LoadError{FilePath: root, Message: "failed to walk directory", Cause: err}
	}

	return files, nil
}

// hasValidExtension checks whether the file has a policy source extension.
func (l *Loader) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range l.config.AllowedExtensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}
