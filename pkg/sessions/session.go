// Package sessions manages persisted agent conversations. Every session is a
// markdown document inside the history root: a YAML frontmatter header that
// machines parse and a free-form body that users can read and edit. Context
// notes are stored as wikilinks and re-resolved on every load so renames and
// moves don't break them.
package sessions

import (
	"regexp"
	"strings"
	"time"

	"github.com/jothq/jot/pkg/vault"
)

// Type discriminates free-standing agent sessions from note-bound chats.
type Type string

const (
	// TypeAgentSession is a free-standing, user-named session.
	TypeAgentSession Type = "agent-session"
	// TypeNoteChat is bound to exactly one source note.
	TypeNoteChat Type = "note-chat"
)

// Context is the per-session configuration for a conversational turn.
type Context struct {
	// ContextFiles are the notes fed to the model as background, in
	// insertion order with duplicates suppressed.
	ContextFiles []*vault.Entry
	// ContextDepth bounds how many levels of links to follow from the
	// context notes.
	ContextDepth int
	// EnabledTools names the tools this session may call.
	EnabledTools []string
	// RequireConfirmation names tools that must always prompt in this
	// session, regardless of the tool's own default.
	RequireConfirmation map[string]bool
}

// AddContextFile appends a note to the context set, suppressing duplicates.
func (c *Context) AddContextFile(entry *vault.Entry) {
	if entry == nil {
		return
	}
	for _, existing := range c.ContextFiles {
		if existing.Path == entry.Path {
			return
		}
	}
	c.ContextFiles = append(c.ContextFiles, entry)
}

// Session is a persisted unit of conversation.
type Session struct {
	ID             string
	Type           Type
	Title          string
	SourceNotePath string
	Context        Context
	// HistoryPath is derived from the sanitized title and the history
	// root; it never escapes the root.
	HistoryPath string
	Created     time.Time
	LastActive  time.Time
	// Body is the free-form conversational content of the record.
	Body string
}

// Touch marks the session as active now.
func (s *Session) Touch() {
	s.LastActive = time.Now()
}

// forbiddenChars are the filesystem-hostile characters replaced during title
// sanitization.
const forbiddenChars = `\/:*?"<>|`

var whitespaceRun = regexp.MustCompile(`\s+`)

// maxTitleLength bounds sanitized titles.
const maxTitleLength = 100

// SanitizeTitle makes a title safe for use as a file name: each forbidden
// character becomes a dash, whitespace runs collapse to a single space, the
// result is trimmed and truncated to 100 characters. Title derivation,
// default-title generation and history-path computation all go through this
// one function so lookups by recomputed path stay consistent.
func SanitizeTitle(title string) string {
	sanitized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenChars, r) {
			return '-'
		}
		return r
	}, title)

	sanitized = whitespaceRun.ReplaceAllString(sanitized, " ")
	sanitized = strings.TrimSpace(sanitized)

	if runes := []rune(sanitized); len(runes) > maxTitleLength {
		sanitized = string(runes[:maxTitleLength])
	}
	return sanitized
}
