package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDir(t *testing.T) (*Dir, string) {
	t.Helper()
	root := t.TempDir()
	d, err := NewDir(root)
	require.NoError(t, err)
	return d, root
}

func seed(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestNewDir(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := NewDir(filepath.Join(t.TempDir(), "absent"))
		assert.Error(t, err)
	})

	t.Run("root must be a directory", func(t *testing.T) {
		root := t.TempDir()
		file := filepath.Join(root, "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		_, err := NewDir(file)
		assert.Error(t, err)
	})
}

func TestReadAndGetByPath(t *testing.T) {
	d, root := newTestDir(t)
	seed(t, root, "notes/a.md", "alpha")

	content, err := d.Read("notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "alpha", content)

	_, err = d.Read("missing.md")
	assert.Error(t, err)

	entry := d.GetByPath("notes/a.md")
	require.NotNil(t, entry)
	assert.Equal(t, "notes/a.md", entry.Path)
	assert.False(t, entry.IsDir)

	folder := d.GetByPath("notes")
	require.NotNil(t, folder)
	assert.True(t, folder.IsDir)

	assert.Nil(t, d.GetByPath("absent"))
}

func TestPathEscapesAreConfined(t *testing.T) {
	d, root := newTestDir(t)
	seed(t, root, "a.md", "inside")

	outside := filepath.Join(filepath.Dir(root), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("outside"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	// Parent segments are cleaned against the vault root, not the OS tree.
	_, err := d.Read("../outside.txt")
	assert.Error(t, err)
	assert.Nil(t, d.GetByPath("../outside.txt"))
}

func TestCreateAndWrite(t *testing.T) {
	d, _ := newTestDir(t)

	require.NoError(t, d.Create("new.md", "first"))
	assert.ErrorContains(t, d.Create("new.md", "again"), "already exists")

	require.NoError(t, d.Write("new.md", "second"))
	content, err := d.Read("new.md")
	require.NoError(t, err)
	assert.Equal(t, "second", content)

	require.NoError(t, d.CreateFolder("deep/nested"))
	entry := d.GetByPath("deep/nested")
	require.NotNil(t, entry)
	assert.True(t, entry.IsDir)
}

func TestList(t *testing.T) {
	d, root := newTestDir(t)
	seed(t, root, "sub/a.md", "a")
	seed(t, root, "sub/b.md", "b")
	require.NoError(t, d.CreateFolder("sub/child"))

	entries, err := d.List("sub")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	paths := map[string]bool{}
	for _, e := range entries {
		paths[e.Path] = e.IsDir
	}
	assert.Contains(t, paths, "sub/a.md")
	assert.Contains(t, paths, "sub/b.md")
	assert.True(t, paths["sub/child"])

	_, err = d.List("absent")
	assert.Error(t, err)
}

func TestMarkdownFiles(t *testing.T) {
	d, root := newTestDir(t)
	seed(t, root, "b.md", "b")
	seed(t, root, "a.md", "a")
	seed(t, root, "sub/c.md", "c")
	seed(t, root, "sub/d.txt", "not markdown")
	seed(t, root, ".obsidian/workspace.md", "hidden")

	files := d.MarkdownFiles()
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"a.md", "b.md", "sub/c.md"}, paths)
}

func TestFrontmatter(t *testing.T) {
	d, root := newTestDir(t)

	t.Run("parses a YAML header", func(t *testing.T) {
		seed(t, root, "with.md", "---\ntitle: Hello\ncount: 3\ntags:\n  - x\n  - y\n---\n\nbody\n")
		fm, err := d.Frontmatter("with.md")
		require.NoError(t, err)
		require.NotNil(t, fm)
		assert.Equal(t, "Hello", fm["title"])
		assert.Equal(t, 3, fm["count"])
	})

	t.Run("no header yields nil without error", func(t *testing.T) {
		seed(t, root, "plain.md", "# Just a heading\n")
		fm, err := d.Frontmatter("plain.md")
		require.NoError(t, err)
		assert.Nil(t, fm)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := d.Frontmatter("absent.md")
		assert.Error(t, err)
	})
}

func TestUpdateFrontmatter(t *testing.T) {
	d, root := newTestDir(t)

	t.Run("mutates existing keys and preserves the body", func(t *testing.T) {
		seed(t, root, "note.md", "---\ntitle: Old\n---\n\nThe body stays.\n")
		err := d.UpdateFrontmatter("note.md", func(fm map[string]any) {
			fm["title"] = "New"
			fm["extra"] = true
		})
		require.NoError(t, err)

		fm, err := d.Frontmatter("note.md")
		require.NoError(t, err)
		assert.Equal(t, "New", fm["title"])
		assert.Equal(t, true, fm["extra"])

		content, err := d.Read("note.md")
		require.NoError(t, err)
		assert.Contains(t, content, "The body stays.")
	})

	t.Run("adds a header to a headerless note", func(t *testing.T) {
		seed(t, root, "bare.md", "only body\n")
		err := d.UpdateFrontmatter("bare.md", func(fm map[string]any) {
			fm["added"] = "yes"
		})
		require.NoError(t, err)

		fm, err := d.Frontmatter("bare.md")
		require.NoError(t, err)
		assert.Equal(t, "yes", fm["added"])

		content, err := d.Read("bare.md")
		require.NoError(t, err)
		assert.Contains(t, content, "only body")
	})

	t.Run("empty header block round-trips", func(t *testing.T) {
		seed(t, root, "empty.md", "---\n---\n\nbody\n")
		err := d.UpdateFrontmatter("empty.md", func(fm map[string]any) {
			fm["name"] = "filled"
		})
		require.NoError(t, err)

		fm, err := d.Frontmatter("empty.md")
		require.NoError(t, err)
		assert.Equal(t, "filled", fm["name"])
	})
}

func TestSplitFrontmatter(t *testing.T) {
	t.Run("well-formed", func(t *testing.T) {
		region, body, ok := splitFrontmatter("---\na: 1\n---\nbody")
		assert.True(t, ok)
		assert.Equal(t, "a: 1\n", region)
		assert.Equal(t, "body", body)
	})

	t.Run("no header", func(t *testing.T) {
		_, body, ok := splitFrontmatter("plain text")
		assert.False(t, ok)
		assert.Equal(t, "plain text", body)
	})

	t.Run("unterminated header", func(t *testing.T) {
		_, _, ok := splitFrontmatter("---\na: 1\nno closing")
		assert.False(t, ok)
	})
}

func TestResolveLink(t *testing.T) {
	d, root := newTestDir(t)
	seed(t, root, "Test File.md", "t")
	seed(t, root, "notes/Test File.md", "nested duplicate")
	seed(t, root, "notes/Unique.md", "u")
	seed(t, root, "projects/roadmap.md", "r")

	t.Run("bare name prefers the shortest path", func(t *testing.T) {
		entry := d.ResolveLink("Test File", "")
		require.NotNil(t, entry)
		assert.Equal(t, "Test File.md", entry.Path)
	})

	t.Run("bare name finds nested notes", func(t *testing.T) {
		entry := d.ResolveLink("Unique", "")
		require.NotNil(t, entry)
		assert.Equal(t, "notes/Unique.md", entry.Path)
	})

	t.Run("alias and heading suffixes are ignored", func(t *testing.T) {
		entry := d.ResolveLink("Unique|display text", "")
		require.NotNil(t, entry)
		assert.Equal(t, "notes/Unique.md", entry.Path)

		entry = d.ResolveLink("Unique#Some Heading", "")
		require.NotNil(t, entry)
		assert.Equal(t, "notes/Unique.md", entry.Path)
	})

	t.Run("path-form links resolve from the vault root", func(t *testing.T) {
		entry := d.ResolveLink("projects/roadmap", "")
		require.NotNil(t, entry)
		assert.Equal(t, "projects/roadmap.md", entry.Path)
	})

	t.Run("path-form links try the source folder first", func(t *testing.T) {
		seed(t, root, "notes/sub/local.md", "l")
		entry := d.ResolveLink("sub/local", "notes/origin.md")
		require.NotNil(t, entry)
		assert.Equal(t, "notes/sub/local.md", entry.Path)
	})

	t.Run("unresolvable links return nil", func(t *testing.T) {
		assert.Nil(t, d.ResolveLink("No Such Note", ""))
		assert.Nil(t, d.ResolveLink("", ""))
		assert.Nil(t, d.ResolveLink("|only alias", ""))
	})
}

func TestEntryBasename(t *testing.T) {
	assert.Equal(t, "roadmap", (&Entry{Path: "projects/roadmap.md"}).Basename())
	assert.Equal(t, "plain", (&Entry{Path: "plain.md"}).Basename())
	assert.Equal(t, "folder", (&Entry{Path: "nested/folder", IsDir: true}).Basename())
}
