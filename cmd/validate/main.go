package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/awakening/pkg/story"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <content.json> [more.json...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		fmt.Printf("Validating %s...\n", filename)
		if err := validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Println("  ok")
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("All content files are valid!")
}

var snakeCase = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

func validateFile(filename string) error {
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("content file must have .json extension: %s", baseName)
	}
	if !snakeCase.MatchString(strings.TrimSuffix(baseName, ".json")) {
		return fmt.Errorf("content filename '%s' must be lowercase snake_case (e.g., my_story.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	c, err := decodeStrict(data)
	if err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation errors in %s:\n%w", filename, err)
	}
	return nil
}

// decodeStrict rejects unknown fields anywhere in the document, including
// inside characters, whose custom decoder would otherwise accept them.
func decodeStrict(data []byte) (*story.Content, error) {
	if !json.Valid(data) {
		return nil, errors.New("contains invalid JSON")
	}

	var c story.Content
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed strict JSON unmarshaling: %w", err)
	}

	var raw struct {
		Characters []map[string]json.RawMessage `json:"characters"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	known := map[string]bool{"name": true, "dialogues": true, "interactable": true, "position": true}
	for i, ch := range raw.Characters {
		for field := range ch {
			if !known[field] {
				return nil, fmt.Errorf("character %d: unknown field %q", i, field)
			}
		}
		if pos, ok := ch["position"]; ok {
			var coords map[string]json.RawMessage
			if err := json.Unmarshal(pos, &coords); err != nil {
				return nil, fmt.Errorf("character %d: position: %w", i, err)
			}
			for field := range coords {
				if field != "x" && field != "y" {
					return nil, fmt.Errorf("character %d: unknown position field %q", i, field)
				}
			}
		}
	}

	return &c, nil
}
