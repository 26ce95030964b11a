package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Supported audio file extensions (lowercase, with leading dot).
var audioExtensions = map[string]bool{
	".wav":  true,
	".aiff": true,
	".aif":  true,
}

// IsAudioFile reports whether path has a supported extension, ignoring case.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// Discover walks sourceRoot and collects files with audio extensions in
// traversal order. When exclude is non-empty, the directory whose absolute
// path equals exclude is pruned; this keeps a target tree nested inside the
// source from being rediscovered.
//
// Only a failure to read sourceRoot itself is returned. An unreadable entry
// below it is passed to onSkip, when non-nil, and the walk continues past it.
func Discover(sourceRoot, exclude string, onSkip func(path string, err error)) ([]string, error) {
	w := walker{root: sourceRoot, exclude: exclude, onSkip: onSkip}
	if err := filepath.WalkDir(sourceRoot, w.visit); err != nil {
		return nil, err
	}
	return w.files, nil
}

type walker struct {
	root    string
	exclude string
	onSkip  func(path string, err error)
	files   []string
}

func (w *walker) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		if path == w.root {
			return err
		}
		if w.onSkip != nil {
			w.onSkip(path, err)
		}
		if d != nil && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() {
		if w.exclude != "" && path != w.root {
			if abs, err := filepath.Abs(path); err == nil && abs == w.exclude {
				return filepath.SkipDir
			}
		}
		return nil
	}
	if IsAudioFile(path) {
		w.files = append(w.files, path)
	}
	return nil
}
