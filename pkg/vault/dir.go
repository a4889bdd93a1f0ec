package vault

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// Dir is a Vault backed by a directory on disk.
type Dir struct {
	root string
}

// NewDir creates a vault rooted at the given directory.
func NewDir(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open vault root")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("vault root %s is not a directory", root)
	}
	return &Dir{root: root}, nil
}

// abs converts a vault-relative slash path to an absolute OS path.
func (d *Dir) abs(p string) string {
	return filepath.Join(d.root, filepath.FromSlash(path.Clean("/"+p)))
}

func (d *Dir) Read(p string) (string, error) {
	data, err := os.ReadFile(d.abs(p))
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", p)
	}
	return string(data), nil
}

func (d *Dir) GetByPath(p string) *Entry {
	info, err := os.Stat(d.abs(p))
	if err != nil {
		return nil
	}
	return &Entry{Path: path.Clean(strings.TrimPrefix("/"+p, "/")), IsDir: info.IsDir()}
}

func (d *Dir) Create(p, content string) error {
	target := d.abs(p)
	if _, err := os.Stat(target); err == nil {
		return errors.Errorf("file %s already exists", p)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to create %s", p)
	}
	return nil
}

func (d *Dir) Write(p, content string) error {
	if err := os.WriteFile(d.abs(p), []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", p)
	}
	return nil
}

func (d *Dir) CreateFolder(p string) error {
	if err := os.MkdirAll(d.abs(p), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create folder %s", p)
	}
	return nil
}

func (d *Dir) List(p string) ([]*Entry, error) {
	dirEntries, err := os.ReadDir(d.abs(p))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", p)
	}
	base := path.Clean(strings.TrimPrefix("/"+p, "/"))
	entries := make([]*Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		childPath := de.Name()
		if base != "." && base != "" {
			childPath = base + "/" + de.Name()
		}
		entries = append(entries, &Entry{Path: childPath, IsDir: de.IsDir()})
	}
	return entries, nil
}

func (d *Dir) MarkdownFiles() []*Entry {
	var files []*Entry
	_ = filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") && p != d.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(entry.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return nil
		}
		files = append(files, &Entry{Path: filepath.ToSlash(rel)})
		return nil
	})
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func (d *Dir) Frontmatter(p string) (map[string]any, error) {
	content, err := d.Read(p)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert([]byte(content), &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", p)
	}

	fm := meta.Get(pctx)
	if fm == nil {
		return nil, nil
	}
	return fm, nil
}

func (d *Dir) UpdateFrontmatter(p string, mutate func(fm map[string]any)) error {
	content, err := d.Read(p)
	if err != nil {
		return err
	}

	fm := map[string]any{}
	body := content
	if region, rest, ok := splitFrontmatter(content); ok {
		if region != "" {
			if err := yaml.Unmarshal([]byte(region), &fm); err != nil {
				return errors.Wrapf(err, "failed to parse frontmatter of %s", p)
			}
			if fm == nil {
				fm = map[string]any{}
			}
		}
		body = rest
	}

	mutate(fm)

	encoded, err := yaml.Marshal(fm)
	if err != nil {
		return errors.Wrapf(err, "failed to encode frontmatter of %s", p)
	}

	rewritten := "---\n" + string(encoded) + "---\n" + body
	if err := os.WriteFile(d.abs(p), []byte(rewritten), 0o644); err != nil {
		return errors.Wrapf(err, "failed to rewrite %s", p)
	}
	return nil
}

// splitFrontmatter separates a leading YAML frontmatter block from the body.
// The returned region excludes the delimiter lines.
func splitFrontmatter(content string) (region, body string, ok bool) {
	if !strings.HasPrefix(content, "---") {
		return "", content, false
	}
	lines := strings.Split(content, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", content, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			region = strings.Join(lines[1:i], "\n")
			if region != "" {
				region += "\n"
			}
			body = strings.Join(lines[i+1:], "\n")
			return region, body, true
		}
	}
	return "", content, false
}

// ResolveLink resolves wikilink text the way note hosts do: alias and heading
// suffixes are ignored, path-like links match their vault path, and bare names
// match the note with the shortest path whose base name equals the link text.
// Notes move and rename, so links are resolved on every call and never cached.
func (d *Dir) ResolveLink(linkText, sourcePath string) *Entry {
	name := linkText
	if idx := strings.Index(name, "|"); idx >= 0 {
		name = name[:idx]
	}
	if idx := strings.Index(name, "#"); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	withExt := name
	if !strings.HasSuffix(withExt, ".md") {
		withExt += ".md"
	}

	// Path-form links resolve relative to the source's folder first, then
	// from the vault root.
	if strings.Contains(name, "/") {
		if sourcePath != "" {
			if e := d.GetByPath(path.Join(path.Dir(sourcePath), withExt)); e != nil && !e.IsDir {
				return e
			}
		}
		if e := d.GetByPath(withExt); e != nil && !e.IsDir {
			return e
		}
		return nil
	}

	var best *Entry
	for _, f := range d.MarkdownFiles() {
		if f.Basename() != name {
			continue
		}
		if best == nil || len(f.Path) < len(best.Path) {
			best = f
		}
	}
	return best
}
