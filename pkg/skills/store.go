package skills

import (
	"context"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/jothq/jot/pkg/logger"
	"github.com/jothq/jot/pkg/vault"
)

// Store discovers and serves skills from a vault. Discovery re-reads the
// skills root on every call; nothing is memoized, so external edits to skill
// directories are picked up immediately.
type Store struct {
	vault vault.Vault
	// root is the skills folder inside the plugin state folder.
	root string
}

// NewStore creates a skill store rooted at <stateFolder>/skills.
func NewStore(v vault.Vault, stateFolder string) *Store {
	return &Store{
		vault: v,
		root:  path.Join(stateFolder, "skills"),
	}
}

// Root returns the skills folder path.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) skillDir(name string) string {
	return path.Join(s.root, name)
}

func (s *Store) manifestPath(name string) string {
	return path.Join(s.root, name, ManifestFileName)
}

// DiscoverSkills scans the immediate subdirectories of the skills root.
// Directories without a manifest, with missing required fields, or with a
// frontmatter name that contradicts the directory name are not errors: the
// first two are skipped with a warning, the last keeps the directory name as
// authoritative. Order follows the directory listing.
func (s *Store) DiscoverSkills(ctx context.Context) []Metadata {
	entries, err := s.vault.List(s.root)
	if err != nil {
		return nil
	}

	var discovered []Metadata
	for _, entry := range entries {
		if !entry.IsDir {
			continue
		}
		dirName := path.Base(entry.Path)

		manifest := s.vault.GetByPath(s.manifestPath(dirName))
		if manifest == nil || manifest.IsDir {
			logger.G(ctx).WithField("skill_dir", entry.Path).Warn("skipping skill directory without SKILL.md")
			continue
		}

		md, err := s.parseMetadata(ctx, dirName)
		if err != nil {
			logger.G(ctx).WithField("skill_dir", entry.Path).WithError(err).Warn("skipping skill with invalid manifest")
			continue
		}
		discovered = append(discovered, *md)
	}

	return discovered
}

func (s *Store) parseMetadata(ctx context.Context, dirName string) (*Metadata, error) {
	fm, err := s.vault.Frontmatter(s.manifestPath(dirName))
	if err != nil {
		return nil, err
	}
	if fm == nil {
		return nil, errors.New("manifest has no frontmatter")
	}

	name, _ := fm["name"].(string)
	description, _ := fm["description"].(string)
	if name == "" || description == "" {
		return nil, errors.New("manifest missing required fields (name, description)")
	}

	if name != dirName {
		logger.G(ctx).
			WithField("frontmatter_name", name).
			WithField("directory", dirName).
			Warn("skill name does not match directory name, using directory name")
	}

	md := &Metadata{
		Name:        dirName,
		Description: description,
		Path:        s.skillDir(dirName),
	}
	if license, ok := fm["license"].(string); ok {
		md.License = license
	}
	if compat, ok := fm["compatibility"].(string); ok {
		md.Compatibility = compat
	}
	if extra, ok := fm["metadata"].(map[string]any); ok {
		md.Extra = make(map[string]string, len(extra))
		for k, v := range extra {
			if str, ok := v.(string); ok {
				md.Extra[k] = str
			}
		}
	}
	return md, nil
}

// Summaries returns the level-1 disclosure tier for every discovered skill.
func (s *Store) Summaries(ctx context.Context) []Summary {
	discovered := s.DiscoverSkills(ctx)
	summaries := make([]Summary, 0, len(discovered))
	for _, md := range discovered {
		summaries = append(summaries, Summary{Name: md.Name, Description: md.Description})
	}
	return summaries
}

// LoadSkill returns the manifest body with its frontmatter stripped (level 2).
// A manifest without a detectable frontmatter block is returned unchanged.
// Returns false for invalid names and missing skills, never an error.
func (s *Store) LoadSkill(ctx context.Context, name string) (string, bool) {
	if err := ValidateName(name); err != nil {
		return "", false
	}

	file := s.vault.GetByPath(s.manifestPath(name))
	if file == nil || file.IsDir {
		return "", false
	}

	content, err := s.vault.Read(s.manifestPath(name))
	if err != nil {
		logger.G(ctx).WithField("skill", name).WithError(err).Warn("failed to read skill manifest")
		return "", false
	}

	return stripFrontmatter(content), true
}

// ReadSkillResource returns the raw content of a file inside the skill's
// directory (level 3). The relative path is rejected both syntactically
// (parent segments, leading separator) and after normalization (resolved path
// must stay strictly inside the skill directory); either check failing, an
// invalid name, or a missing file all return false.
func (s *Store) ReadSkillResource(ctx context.Context, skillName, relativePath string) (string, bool) {
	if err := ValidateName(skillName); err != nil {
		return "", false
	}
	if relativePath == "" || strings.HasPrefix(relativePath, "/") || hasParentSegment(relativePath) {
		return "", false
	}

	skillDir := s.skillDir(skillName)
	resolved := path.Join(skillDir, relativePath)
	if !strings.HasPrefix(resolved, skillDir+"/") {
		return "", false
	}

	file := s.vault.GetByPath(resolved)
	if file == nil || file.IsDir {
		return "", false
	}

	content, err := s.vault.Read(resolved)
	if err != nil {
		logger.G(ctx).WithField("resource", resolved).WithError(err).Warn("failed to read skill resource")
		return "", false
	}
	return content, true
}

// ListSkillResources enumerates every file under the skill directory except
// the manifest itself, as paths relative to the skill root.
func (s *Store) ListSkillResources(ctx context.Context, skillName string) []string {
	if err := ValidateName(skillName); err != nil {
		return nil
	}

	skillDir := s.skillDir(skillName)
	if folder := s.vault.GetByPath(skillDir); folder == nil || !folder.IsDir {
		return nil
	}

	var resources []string
	s.collectFiles(skillDir, skillDir, &resources)
	return resources
}

func (s *Store) collectFiles(dir, base string, out *[]string) {
	entries, err := s.vault.List(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir {
			s.collectFiles(entry.Path, base, out)
			continue
		}
		rel := strings.TrimPrefix(entry.Path, base+"/")
		if rel == ManifestFileName {
			continue
		}
		*out = append(*out, rel)
	}
}

// CreateSkill authors a new skill directory with a SKILL.md manifest. The
// manifest is written with an empty frontmatter block first, then the
// structured fields are set through the vault's frontmatter editor so the
// host's YAML handling stays the system of record for those fields.
func (s *Store) CreateSkill(ctx context.Context, name, description, content string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	if err := s.vault.CreateFolder(s.root); err != nil {
		return "", errors.Wrap(err, "failed to ensure skills directory")
	}

	skillDir := s.skillDir(name)
	if existing := s.vault.GetByPath(skillDir); existing != nil {
		return "", errors.Errorf("skill %q already exists", name)
	}

	if err := s.vault.CreateFolder(skillDir); err != nil {
		return "", errors.Wrapf(err, "failed to create skill directory %s", skillDir)
	}

	manifestPath := s.manifestPath(name)
	if err := s.vault.Create(manifestPath, "---\n---\n\n"+content); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", manifestPath)
	}

	err := s.vault.UpdateFrontmatter(manifestPath, func(fm map[string]any) {
		fm["name"] = name
		fm["description"] = description
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to set manifest fields of %s", manifestPath)
	}

	logger.G(ctx).WithField("skill", name).Info("created skill")
	return manifestPath, nil
}

// hasParentSegment reports whether any path segment is "..".
func hasParentSegment(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}

// stripFrontmatter removes a leading YAML frontmatter block. Content without
// a detectable block is returned as-is.
func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return content
	}

	return strings.TrimSpace(strings.Join(lines[end+1:], "\n"))
}
