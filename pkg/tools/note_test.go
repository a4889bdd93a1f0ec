package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNoteTool(t *testing.T) {
	ctx := context.Background()
	tool := &ReadNoteTool{}
	execCtx, _, root := newExecContext(t)
	writeVaultFile(t, root, "projects/roadmap.md", "# Roadmap\n\nQ3 goals.")

	t.Run("reads an existing note", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{"path": "projects/roadmap.md"}`)
		require.True(t, result.Success)

		data := result.Data.(map[string]any)
		assert.Equal(t, "projects/roadmap.md", data["path"])
		assert.Contains(t, data["content"], "Q3 goals")
	})

	t.Run("missing note fails", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{"path": "nope.md"}`)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "not found")
	})

	t.Run("a folder is not a note", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{"path": "projects"}`)
		assert.False(t, result.Success)
	})
}

func TestListNotesTool(t *testing.T) {
	ctx := context.Background()
	tool := &ListNotesTool{}
	execCtx, _, root := newExecContext(t)
	writeVaultFile(t, root, "a.md", "a")
	writeVaultFile(t, root, "projects/roadmap.md", "r")
	writeVaultFile(t, root, "projects/ideas.md", "i")

	t.Run("lists the whole vault", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{}`)
		require.True(t, result.Success)

		data := result.Data.(map[string]any)
		assert.Equal(t, 3, data["count"])
		assert.ElementsMatch(t, []string{"a.md", "projects/roadmap.md", "projects/ideas.md"}, data["notes"])
	})

	t.Run("filters by folder", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{"folder": "projects"}`)
		require.True(t, result.Success)

		data := result.Data.(map[string]any)
		assert.ElementsMatch(t, []string{"projects/roadmap.md", "projects/ideas.md"}, data["notes"])
	})

	t.Run("missing folder fails", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{"folder": "absent"}`)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "not found")
	})

	t.Run("empty existing folder returns no notes", func(t *testing.T) {
		require.NoError(t, execCtx.Vault.CreateFolder("empty"))
		result := tool.Execute(ctx, execCtx, `{"folder": "empty"}`)
		require.True(t, result.Success)

		data := result.Data.(map[string]any)
		assert.Equal(t, 0, data["count"])
	})
}

func TestSearchNotesTool(t *testing.T) {
	ctx := context.Background()
	tool := &SearchNotesTool{}
	execCtx, _, root := newExecContext(t)
	writeVaultFile(t, root, "a.md", "The quarterly REVIEW went well.")
	writeVaultFile(t, root, "b.md", "Grocery list.")
	writeVaultFile(t, root, "c.md", "Another review item.")

	t.Run("matches case-insensitively", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{"query": "review"}`)
		require.True(t, result.Success)

		data := result.Data.(map[string]any)
		assert.Equal(t, 2, data["count"])
		assert.ElementsMatch(t, []string{"a.md", "c.md"}, data["matches"])
	})

	t.Run("no matches is still a success", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{"query": "nonexistent"}`)
		require.True(t, result.Success)

		data := result.Data.(map[string]any)
		assert.Equal(t, 0, data["count"])
	})

	t.Run("empty query rejected by validation", func(t *testing.T) {
		assert.Error(t, tool.ValidateInput(`{"query": ""}`))
	})
}

func TestWriteNoteTool(t *testing.T) {
	ctx := context.Background()
	tool := &WriteNoteTool{}
	execCtx, v, root := newExecContext(t)
	writeVaultFile(t, root, "existing.md", "already here")

	t.Run("creates a note with parent folders", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{"path": "new/folder/note.md", "content": "# New"}`)
		require.True(t, result.Success)

		content, err := v.Read("new/folder/note.md")
		require.NoError(t, err)
		assert.Equal(t, "# New", content)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		result := tool.Execute(ctx, execCtx, `{"path": "existing.md", "content": "clobber"}`)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "already exists")

		content, err := v.Read("existing.md")
		require.NoError(t, err)
		assert.Equal(t, "already here", content)
	})

	t.Run("confirmation prompt quotes path and truncated content", func(t *testing.T) {
		assert.True(t, tool.RequiresConfirmation())
		prompt := tool.ConfirmationPrompt(`{"path": "x.md", "content": "hello world"}`)
		assert.Contains(t, prompt, `"x.md"`)
		assert.Contains(t, prompt, "hello world")
	})

	t.Run("validation requires both fields", func(t *testing.T) {
		assert.ErrorContains(t, tool.ValidateInput(`{"content": "c"}`), "path is required")
		assert.ErrorContains(t, tool.ValidateInput(`{"path": "p.md"}`), "content is required")
	})
}
