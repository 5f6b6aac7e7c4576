package story

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoSegments = errors.New("content has no story segments")

// Validate reports every structural problem in the content at once.
func (c *Content) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, errors.New("content name is required"))
	}
	if len(c.Segments) == 0 {
		errs = append(errs, ErrNoSegments)
	}
	for i, s := range c.Segments {
		if strings.TrimSpace(s.Title) == "" {
			errs = append(errs, fmt.Errorf("segment %d: title is required", i))
		}
		for j, o := range s.Objectives {
			if strings.TrimSpace(o) == "" {
				errs = append(errs, fmt.Errorf("segment %d: objective %d is empty", i, j))
			}
		}
	}

	seen := make(map[string]int, len(c.Characters))
	for i, ch := range c.Characters {
		name := strings.TrimSpace(ch.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("character %d: name is required", i))
			continue
		}
		if prev, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("character %d: duplicate name %q (also character %d)", i, name, prev))
		}
		seen[name] = i
		for j, line := range ch.Lines {
			if strings.TrimSpace(line) == "" {
				errs = append(errs, fmt.Errorf("character %q: dialogue line %d is empty", name, j))
			}
		}
	}

	if n := len(c.Audio.NarratorVoices); n > len(c.Segments) {
		errs = append(errs, fmt.Errorf("audio: %d narrator voices for %d segments", n, len(c.Segments)))
	}

	return errors.Join(errs...)
}
