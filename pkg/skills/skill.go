// Package skills implements an agent skill store following the agentskills.io
// layout: each skill is a directory under the skills root containing a
// SKILL.md manifest (YAML frontmatter + instructions) and optional
// references/, assets/ and scripts/ resource trees.
//
// Skill content is disclosed progressively: summaries (level 1) go into the
// system prompt, full instructions (level 2) and individual resources
// (level 3) are loaded on demand through the activate_skill tool.
package skills

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ManifestFileName is the required manifest inside every skill directory.
const ManifestFileName = "SKILL.md"

// maxNameLength is the agentskills.io limit on skill names.
const maxNameLength = 64

// Metadata is the parsed frontmatter of a skill manifest. Name always equals
// the containing directory's name; a conflicting frontmatter value is only
// warned about.
type Metadata struct {
	Name          string
	Description   string
	License       string
	Compatibility string
	Extra         map[string]string
	// Path is the skill directory, relative to the vault root.
	Path string
}

// Summary is the level-1 disclosure tier: just enough for the model to decide
// whether a skill is worth activating. Deliberately excludes license,
// compatibility and extra metadata to keep prompt injection small.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Name validation failures. Callers distinguish them with errors.Is.
var (
	ErrNameEmpty              = errors.New("skill name is required")
	ErrNameTooLong            = errors.Errorf("skill name must be %d characters or fewer", maxNameLength)
	ErrNameConsecutiveHyphens = errors.New("skill name must not contain consecutive hyphens (--)")
	ErrNamePattern            = errors.New("skill name must contain only lowercase alphanumeric characters and hyphens, and must not start or end with a hyphen")
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// ValidateName checks a skill name against the agentskills.io rules:
// 1-64 characters, lowercase alphanumeric and hyphens, no leading/trailing
// hyphen, no consecutive hyphens.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	if strings.Contains(name, "--") {
		return ErrNameConsecutiveHyphens
	}
	if !namePattern.MatchString(name) {
		return ErrNamePattern
	}
	return nil
}
