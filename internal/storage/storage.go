package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/awakening/pkg/story"
)

var ErrContentNotFound = errors.New("content not found")

// Storage loads static game content. Content is read once at startup and
// never written back.
type Storage interface {
	// ListContent maps content names to their file names.
	ListContent(ctx context.Context) (map[string]string, error)
	GetContent(ctx context.Context, filename string) (*story.Content, error)
}
