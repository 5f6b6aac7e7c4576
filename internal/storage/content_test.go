package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/awakening/internal/logger"
	"github.com/jwebster45206/awakening/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFileStorage_ListAndGet(t *testing.T) {
	dataDir := t.TempDir()
	contentDir := filepath.Join(dataDir, "content")
	writeFile(t, contentDir, "awakening.json", `{
		"name": "The Awakening",
		"segments": [{"title": "The Awakening", "content": "You wake.", "objectives": ["Explore the village"]}],
		"characters": [{"name": "Lyra Vale", "dialogues": ["Welcome."]}]
	}`)
	writeFile(t, contentDir, "broken.json", `{not json`)
	writeFile(t, contentDir, "notes.txt", `ignored`)

	s := NewFileStorage(dataDir, logger.Discard())
	ctx := context.Background()

	list, err := s.ListContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"The Awakening": "awakening.json"}, list)

	c, err := s.GetContent(ctx, "awakening.json")
	require.NoError(t, err)
	assert.Equal(t, "awakening.json", c.FileName)
	require.Len(t, c.Segments, 1)
	assert.Equal(t, "You wake.", c.Segments[0].Body)
	require.Len(t, c.Characters, 1)
	assert.True(t, c.Characters[0].Interactable)
}

func TestFileStorage_GetErrors(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "content"), "broken.json", `{not json`)
	s := NewFileStorage(dataDir, logger.Discard())
	ctx := context.Background()

	_, err := s.GetContent(ctx, "missing.json")
	assert.ErrorIs(t, err, ErrContentNotFound)

	_, err = s.GetContent(ctx, "broken.json")
	assert.ErrorContains(t, err, "failed to unmarshal content")

	_, err = s.GetContent(ctx, "../secrets.json")
	assert.ErrorContains(t, err, "invalid content file name")
}

func TestFileStorage_ListMissingDir(t *testing.T) {
	s := NewFileStorage(t.TempDir(), logger.Discard())
	_, err := s.ListContent(context.Background())
	assert.Error(t, err)
}

func TestFileStorage_ShippedContentIsValid(t *testing.T) {
	s := NewFileStorage(filepath.Join("..", "..", "data"), logger.Discard())
	ctx := context.Background()

	list, err := s.ListContent(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for name, file := range list {
		c, err := s.GetContent(ctx, file)
		require.NoError(t, err, name)
		assert.NoError(t, c.Validate(), name)
	}
}

func TestMockStorage(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()
	m.AddContent("test.json", &story.Content{Name: "Test", Segments: []story.Segment{{Title: "One"}}})

	list, err := m.ListContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Test": "test.json"}, list)

	c, err := m.GetContent(ctx, "test.json")
	require.NoError(t, err)
	assert.Equal(t, "test.json", c.FileName)

	_, err = m.GetContent(ctx, "nope.json")
	assert.ErrorIs(t, err, ErrContentNotFound)

	m.SetListError(errors.New("disk gone"))
	_, err = m.ListContent(ctx)
	assert.EqualError(t, err, "disk gone")
}
