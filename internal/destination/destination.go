// Package destination resolves user-entered labels to the folders images are
// filed into and remembers each binding for the rest of the session.
package destination

import (
	"maps"
	"path/filepath"
	"sort"
	"strings"

	"picsort/internal/errors"
	"picsort/internal/log"
)

// Map binds labels to destination folders. The zero value is an empty map.
// Bind and Clear return a new Map; the receiver is never modified.
type Map struct {
	bindings map[string]string
}

// Lookup returns the folder bound to label.
func (m Map) Lookup(label string) (string, bool) {
	path, ok := m.bindings[label]
	return path, ok
}

// Bind returns a copy of m with label bound to path.
func (m Map) Bind(label, path string) Map {
	next := maps.Clone(m.bindings)
	if next == nil {
		next = make(map[string]string, 1)
	}
	next[label] = path
	return Map{bindings: next}
}

// Clear returns an empty map.
func (m Map) Clear() Map {
	return Map{}
}

// Len returns the number of bound labels.
func (m Map) Len() int {
	return len(m.bindings)
}

// Labels returns the bound labels in sorted order.
func (m Map) Labels() []string {
	labels := make([]string, 0, len(m.bindings))
	for label := range m.bindings {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// DirCreator creates a directory and its parents. fileops.Engine satisfies it.
type DirCreator interface {
	CreateDirectories(path string) error
}

// Prompt asks the user for the base directory of a new label. ok is false
// when the user cancels.
type Prompt func(label string) (base string, ok bool)

// Resolver returns the destination folder of a label, creating and binding
// it on first use.
type Resolver interface {
	Resolve(m Map, label string) (path string, next Map, err error)
}

// ValidateLabel rejects labels that would escape their base directory.
func ValidateLabel(label string) error {
	switch {
	case label == "":
		return errors.ErrEmptyLabelInput
	case label == "." || label == "..":
		return errors.NewLabelError("label cannot be a relative directory", label, errors.InvalidLabel, nil)
	case strings.ContainsAny(label, `/\`) || strings.ContainsRune(label, filepath.Separator):
		return errors.NewLabelError("label cannot contain a path separator", label, errors.InvalidLabel, nil)
	}
	return nil
}

// MoveResolver asks for a base directory once per unbound label and files
// the label under base/label.
type MoveResolver struct {
	Prompt Prompt
	Dirs   DirCreator
}

// Resolve implements Resolver.
func (r MoveResolver) Resolve(m Map, label string) (string, Map, error) {
	if path, ok := m.Lookup(label); ok {
		return path, m, nil
	}
	if err := ValidateLabel(label); err != nil {
		return "", m, err
	}

	if r.Prompt == nil {
		return "", m, errors.ErrDestinationNotSelected
	}
	base, ok := r.Prompt(label)
	if !ok || strings.TrimSpace(base) == "" {
		log.Debug("Destination prompt cancelled for label %q", label)
		return "", m, errors.ErrDestinationNotSelected
	}

	return bind(r.Dirs, m, label, filepath.Join(base, label))
}

// CopyResolver files every label under the session's source folder.
type CopyResolver struct {
	Source string
	Dirs   DirCreator
}

// Resolve implements Resolver.
func (r CopyResolver) Resolve(m Map, label string) (string, Map, error) {
	if path, ok := m.Lookup(label); ok {
		return path, m, nil
	}
	if err := ValidateLabel(label); err != nil {
		return "", m, err
	}
	if r.Source == "" {
		return "", m, errors.ErrNoDirectorySelected
	}
	return bind(r.Dirs, m, label, filepath.Join(r.Source, label))
}

func bind(dirs DirCreator, m Map, label, path string) (string, Map, error) {
	if err := dirs.CreateDirectories(path); err != nil {
		return "", m, errors.NewLabelError("failed to create destination", label, errors.KindOf(err), err)
	}
	log.LogWithFields(log.F("label", label), log.F("path", path)).Info("Bound destination")
	return path, m.Bind(label, path), nil
}
