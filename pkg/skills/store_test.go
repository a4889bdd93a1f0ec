package skills

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jothq/jot/pkg/vault"
)

func newTestStore(t *testing.T) (*Store, *vault.Dir, string) {
	t.Helper()
	root := t.TempDir()
	v, err := vault.NewDir(root)
	require.NoError(t, err)
	return NewStore(v, "jot"), v, root
}

func installSkill(t *testing.T, root, name, manifest string) string {
	t.Helper()
	dir := filepath.Join(root, "jot", "skills", name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(manifest), 0o644))
	return dir
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid hyphenated", input: "code-review", wantErr: nil},
		{name: "valid single letter", input: "x", wantErr: nil},
		{name: "valid with digits", input: "notes2md", wantErr: nil},
		{name: "empty", input: "", wantErr: ErrNameEmpty},
		{name: "uppercase", input: "CodeReview", wantErr: ErrNamePattern},
		{name: "leading hyphen", input: "-skill", wantErr: ErrNamePattern},
		{name: "trailing hyphen", input: "skill-", wantErr: ErrNamePattern},
		{name: "consecutive hyphens", input: "code--review", wantErr: ErrNameConsecutiveHyphens},
		{name: "too long", input: strings.Repeat("a", 65), wantErr: ErrNameTooLong},
		{name: "leading digit", input: "2fast", wantErr: ErrNamePattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNameMessages(t *testing.T) {
	assert.Contains(t, ValidateName("code--review").Error(), "consecutive hyphens")
	assert.Contains(t, ValidateName(strings.Repeat("a", 65)).Error(), "64 characters or fewer")
}

func TestDiscoverSkills(t *testing.T) {
	ctx := context.Background()
	store, _, root := newTestStore(t)

	installSkill(t, root, "code-review", `---
name: code-review
description: Review code changes
license: MIT
---

# Code Review

Steps here.
`)
	installSkill(t, root, "meeting-notes", `---
name: meeting-notes
description: Summarize meetings
---

Body.
`)

	discovered := store.DiscoverSkills(ctx)
	require.Len(t, discovered, 2)

	byName := map[string]Metadata{}
	for _, md := range discovered {
		byName[md.Name] = md
	}
	assert.Equal(t, "Review code changes", byName["code-review"].Description)
	assert.Equal(t, "MIT", byName["code-review"].License)
	assert.Equal(t, "jot/skills/code-review", byName["code-review"].Path)
}

func TestDiscoverSkillsSkipsInvalid(t *testing.T) {
	ctx := context.Background()
	store, _, root := newTestStore(t)

	// No manifest at all.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "jot", "skills", "no-manifest"), 0o755))

	// Missing required description.
	installSkill(t, root, "incomplete", "---\nname: incomplete\n---\n\nBody.\n")

	// A stray file in the skills root is not a skill.
	require.NoError(t, os.WriteFile(filepath.Join(root, "jot", "skills", "README.md"), []byte("hi"), 0o644))

	installSkill(t, root, "valid-skill", "---\nname: valid-skill\ndescription: Works\n---\n\nBody.\n")

	discovered := store.DiscoverSkills(ctx)
	require.Len(t, discovered, 1)
	assert.Equal(t, "valid-skill", discovered[0].Name)
}

func TestDiscoverSkillsDirectoryNameWins(t *testing.T) {
	ctx := context.Background()
	store, _, root := newTestStore(t)

	installSkill(t, root, "actual-name", `---
name: declared-name
description: Mismatched manifest
---

Body.
`)

	discovered := store.DiscoverSkills(ctx)
	require.Len(t, discovered, 1)
	assert.Equal(t, "actual-name", discovered[0].Name)
}

func TestSummaries(t *testing.T) {
	ctx := context.Background()
	store, _, root := newTestStore(t)

	installSkill(t, root, "code-review", `---
name: code-review
description: Review code changes
license: MIT
compatibility: all hosts
metadata:
  author: someone
---

Body.
`)

	summaries := store.Summaries(ctx)
	require.Len(t, summaries, 1)
	assert.Equal(t, Summary{Name: "code-review", Description: "Review code changes"}, summaries[0])
}

func TestLoadSkill(t *testing.T) {
	ctx := context.Background()
	store, _, root := newTestStore(t)

	installSkill(t, root, "code-review", `---
name: code-review
description: Review code changes
---

# Instructions

Do the review.
`)

	t.Run("strips frontmatter", func(t *testing.T) {
		content, found := store.LoadSkill(ctx, "code-review")
		require.True(t, found)
		assert.True(t, strings.HasPrefix(content, "# Instructions"))
		assert.NotContains(t, content, "description:")
	})

	t.Run("returns full content when no frontmatter is detectable", func(t *testing.T) {
		installSkill(t, root, "plain-skill", "# Just Content\n\nNo header.\n")
		content, found := store.LoadSkill(ctx, "plain-skill")
		require.True(t, found)
		assert.Equal(t, "# Just Content\n\nNo header.\n", content)
	})

	t.Run("missing skill", func(t *testing.T) {
		_, found := store.LoadSkill(ctx, "nope")
		assert.False(t, found)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, found := store.LoadSkill(ctx, "../escape")
		assert.False(t, found)
	})
}

func TestReadSkillResource(t *testing.T) {
	ctx := context.Background()
	store, _, root := newTestStore(t)

	dir := installSkill(t, root, "my-skill", "---\nname: my-skill\ndescription: d\n---\n\nBody.\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "references"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "references", "REFERENCE.md"), []byte("reference content"), 0o644))

	t.Run("reads a resource", func(t *testing.T) {
		content, found := store.ReadSkillResource(ctx, "my-skill", "references/REFERENCE.md")
		require.True(t, found)
		assert.Equal(t, "reference content", content)
	})

	t.Run("rejects parent traversal", func(t *testing.T) {
		_, found := store.ReadSkillResource(ctx, "my-skill", "../../secret.md")
		assert.False(t, found)
	})

	t.Run("rejects absolute paths", func(t *testing.T) {
		_, found := store.ReadSkillResource(ctx, "my-skill", "/etc/passwd")
		assert.False(t, found)
	})

	t.Run("rejects embedded parent segments", func(t *testing.T) {
		_, found := store.ReadSkillResource(ctx, "my-skill", "references/../../other/file.md")
		assert.False(t, found)
	})

	t.Run("rejects invalid skill names", func(t *testing.T) {
		_, found := store.ReadSkillResource(ctx, "My Skill", "references/REFERENCE.md")
		assert.False(t, found)
	})

	t.Run("missing resource", func(t *testing.T) {
		_, found := store.ReadSkillResource(ctx, "my-skill", "references/NOPE.md")
		assert.False(t, found)
	})
}

func TestListSkillResources(t *testing.T) {
	ctx := context.Background()
	store, _, root := newTestStore(t)

	dir := installSkill(t, root, "my-skill", "---\nname: my-skill\ndescription: d\n---\n\nBody.\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "references"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "references", "REFERENCE.md"), []byte("r"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "template.md"), []byte("t"), 0o644))

	resources := store.ListSkillResources(ctx, "my-skill")
	assert.ElementsMatch(t, []string{"references/REFERENCE.md", "assets/template.md"}, resources)
	assert.NotContains(t, resources, ManifestFileName)
}

func TestCreateSkill(t *testing.T) {
	ctx := context.Background()
	store, v, _ := newTestStore(t)

	t.Run("creates a discoverable skill", func(t *testing.T) {
		manifestPath, err := store.CreateSkill(ctx, "new-skill", "Does new things", "# New Skill\n\nInstructions.")
		require.NoError(t, err)
		assert.Equal(t, "jot/skills/new-skill/SKILL.md", manifestPath)

		fm, err := v.Frontmatter(manifestPath)
		require.NoError(t, err)
		require.NotNil(t, fm)
		assert.Equal(t, "new-skill", fm["name"])
		assert.Equal(t, "Does new things", fm["description"])

		content, found := store.LoadSkill(ctx, "new-skill")
		require.True(t, found)
		assert.Contains(t, content, "# New Skill")

		discovered := store.DiscoverSkills(ctx)
		require.Len(t, discovered, 1)
		assert.Equal(t, "new-skill", discovered[0].Name)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := store.CreateSkill(ctx, "new-skill", "Again", "Body")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		_, err := store.CreateSkill(ctx, "Bad Name", "d", "c")
		assert.ErrorIs(t, err, ErrNamePattern)
	})
}
