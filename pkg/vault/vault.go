// Package vault abstracts the user's note collection. All paths are
// slash-separated and relative to the vault root; the agent layer never
// touches the filesystem directly so tests and alternative hosts can swap
// in their own implementation.
package vault

import "strings"

// Entry describes a file or folder inside the vault.
type Entry struct {
	Path  string
	IsDir bool
}

// Basename returns the file name without its extension.
func (e *Entry) Basename() string {
	name := e.Path
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

// Vault is the file-system contract consumed by the agent layer.
type Vault interface {
	// Read returns the text content of a file.
	Read(path string) (string, error)
	// GetByPath returns the entry at path, or nil if nothing exists there.
	GetByPath(path string) *Entry
	// Create writes a new file. The parent folder must already exist.
	Create(path, content string) error
	// Write creates or overwrites a file.
	Write(path, content string) error
	// CreateFolder creates a folder and any missing parents.
	CreateFolder(path string) error
	// List returns the immediate children of a folder in directory order.
	List(path string) ([]*Entry, error)
	// MarkdownFiles lists every markdown file in the vault.
	MarkdownFiles() []*Entry
	// Frontmatter returns the parsed YAML frontmatter of a markdown file,
	// or nil when the file has no frontmatter block.
	Frontmatter(path string) (map[string]any, error)
	// UpdateFrontmatter applies mutate to the frontmatter of a markdown
	// file and rewrites the file, preserving the body. A frontmatter block
	// is created when the file has none.
	UpdateFrontmatter(path string, mutate func(fm map[string]any)) error
	// ResolveLink resolves wikilink text against the vault. An empty
	// sourcePath resolves relative to the vault root. Returns nil when no
	// matching note exists.
	ResolveLink(linkText, sourcePath string) *Entry
}
