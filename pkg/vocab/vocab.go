// Package vocab defines the configurable status vocabulary that maps free-text
// FSM status labels into the three classification sets.
package vocab

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Class is the classification set a status label belongs to.
type Class int

const (
	// ClassUnknown marks labels outside every configured set. Jobs carrying
	// such labels count toward totals but no state-specific breakdown.
	ClassUnknown Class = iota
	ClassCompleted
	ClassInProgress
	ClassNotStarted
)

// Vocabulary holds the three disjoint status label sets. Matching is
// case-insensitive; labels are normalized to lower case at construction.
type Vocabulary struct {
	classes map[string]Class
}

// File is the YAML shape of a vocabulary file.
type File struct {
	Completed  []string `yaml:"completed"`
	InProgress []string `yaml:"in_progress"`
	NotStarted []string `yaml:"not_started"`
}

// Default returns the vocabulary for a stock FSM platform setup.
func Default() *Vocabulary {
	v, err := New(File{
		Completed:  []string{"Completed", "Done", "Closed", "Submitted"},
		InProgress: []string{"Started", "In Progress", "On Our Way", "En Route", "On Site"},
		NotStarted: []string{"Scheduled", "Pending", "Confirmed", "Unscheduled"},
	})
	if err != nil {
		// The built-in sets are disjoint; this cannot fail.
		panic(err)
	}
	return v
}

// New builds a Vocabulary from explicit label sets, rejecting overlap.
func New(f File) (*Vocabulary, error) {
	classes := make(map[string]Class)
	add := func(labels []string, class Class, setName string) error {
		for _, label := range labels {
			key := normalize(label)
			if key == "" {
				return fmt.Errorf("empty label in %s set", setName)
			}
			if existing, ok := classes[key]; ok && existing != class {
				return fmt.Errorf("label %q appears in more than one set", label)
			}
			classes[key] = class
		}
		return nil
	}

	if err := add(f.Completed, ClassCompleted, "completed"); err != nil {
		return nil, err
	}
	if err := add(f.InProgress, ClassInProgress, "in_progress"); err != nil {
		return nil, err
	}
	if err := add(f.NotStarted, ClassNotStarted, "not_started"); err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("vocabulary has no labels")
	}

	return &Vocabulary{classes: classes}, nil
}

// LoadFile reads a vocabulary from a YAML file.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vocabulary file: %w", err)
	}

	v, err := New(f)
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary in %s: %w", path, err)
	}
	return v, nil
}

// Classify returns the set a status label belongs to.
func (v *Vocabulary) Classify(status string) Class {
	return v.classes[normalize(status)]
}

// Len returns the number of configured labels.
func (v *Vocabulary) Len() int {
	return len(v.classes)
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
