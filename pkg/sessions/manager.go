package sessions

import (
	"context"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jothq/jot/pkg/logger"
	"github.com/jothq/jot/pkg/vault"
)

// ErrNotFound is returned when a session record does not exist or cannot be
// parsed. A load never yields a partial session.
var ErrNotFound = errors.New("session not found")

// historyFolderName is the folder under the state folder holding session
// records.
const historyFolderName = "Agent-Sessions"

// noteChatSuffix is appended to the source note's base name for note chats.
const noteChatSuffix = " Chat"

// defaultContextDepth bounds link following for new sessions.
const defaultContextDepth = 2

var wikilinkPattern = regexp.MustCompile(`^\[\[(.+)\]\]$`)

// Manager creates, loads and persists sessions inside the history root.
type Manager struct {
	vault       vault.Vault
	historyRoot string
	// defaultTools seeds EnabledTools on newly created sessions.
	defaultTools []string
}

// NewManager creates a session manager rooted at <stateFolder>/Agent-Sessions.
func NewManager(v vault.Vault, stateFolder string, defaultTools []string) *Manager {
	return &Manager{
		vault:        v,
		historyRoot:  path.Join(stateFolder, historyFolderName),
		defaultTools: defaultTools,
	}
}

// HistoryRoot returns the folder session records live in.
func (m *Manager) HistoryRoot() string {
	return m.historyRoot
}

// historyPath derives the record location from a sanitized title. Because the
// title is sanitized, the result cannot escape the history root.
func (m *Manager) historyPath(sanitizedTitle string) string {
	return path.Join(m.historyRoot, sanitizedTitle+".md")
}

// CreateOptions seeds optional state on a new agent session.
type CreateOptions struct {
	ContextFiles []*vault.Entry
}

// CreateAgentSession builds a free-standing session. An empty title gets a
// default embedding the current date.
func (m *Manager) CreateAgentSession(title string, opts *CreateOptions) *Session {
	if title == "" {
		title = "Agent Session " + time.Now().Format("2006-01-02 15.04.05")
	}
	sanitized := SanitizeTitle(title)

	now := time.Now()
	session := &Session{
		ID:          uuid.NewString(),
		Type:        TypeAgentSession,
		Title:       sanitized,
		HistoryPath: m.historyPath(sanitized),
		Created:     now,
		LastActive:  now,
		Context: Context{
			ContextDepth:        defaultContextDepth,
			EnabledTools:        append([]string(nil), m.defaultTools...),
			RequireConfirmation: map[string]bool{},
		},
	}

	if opts != nil {
		for _, f := range opts.ContextFiles {
			session.Context.AddContextFile(f)
		}
	}
	return session
}

// CreateNoteChatSession builds a session bound to one source note. The note
// itself is always part of the context.
func (m *Manager) CreateNoteChatSession(file *vault.Entry) *Session {
	title := SanitizeTitle(file.Basename()) + noteChatSuffix

	now := time.Now()
	session := &Session{
		ID:             uuid.NewString(),
		Type:           TypeNoteChat,
		Title:          title,
		SourceNotePath: file.Path,
		HistoryPath:    m.historyPath(title),
		Created:        now,
		LastActive:     now,
		Context: Context{
			ContextDepth:        defaultContextDepth,
			EnabledTools:        append([]string(nil), m.defaultTools...),
			RequireConfirmation: map[string]bool{},
		},
	}
	session.Context.AddContextFile(file)
	return session
}

// GetNoteChatSession looks up an existing note chat for a source note by
// recomputing its expected record path. Returns nil when no record exists,
// so callers can avoid creating duplicate sessions per note.
func (m *Manager) GetNoteChatSession(ctx context.Context, file *vault.Entry) (*Session, error) {
	expected := m.historyPath(SanitizeTitle(file.Basename()) + noteChatSuffix)

	record := m.vault.GetByPath(expected)
	if record == nil || record.IsDir {
		return nil, nil
	}

	session, err := m.LoadSessionFromFile(ctx, record)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// LoadSessionFromFile parses a persisted record into a Session. Context
// references in wikilink form are resolved through the vault's link
// resolution; legacy plain-path references fall back to a direct path lookup.
// Entries that resolve to nothing are dropped with a warning. A record whose
// header cannot be parsed yields ErrNotFound, never a partial session.
func (m *Manager) LoadSessionFromFile(ctx context.Context, file *vault.Entry) (*Session, error) {
	fm, err := m.vault.Frontmatter(file.Path)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "unreadable record %s", file.Path)
	}
	if fm == nil {
		return nil, errors.Wrapf(ErrNotFound, "record %s has no header", file.Path)
	}

	id, _ := fm["session_id"].(string)
	title, _ := fm["title"].(string)
	if id == "" || title == "" {
		return nil, errors.Wrapf(ErrNotFound, "record %s missing required header fields", file.Path)
	}

	sessionType := TypeAgentSession
	switch typeField, _ := fm["type"].(string); typeField {
	case string(TypeAgentSession), "":
	case string(TypeNoteChat):
		sessionType = TypeNoteChat
	default:
		return nil, errors.Wrapf(ErrNotFound, "record %s has unknown type", file.Path)
	}

	session := &Session{
		ID:          id,
		Type:        sessionType,
		Title:       title,
		HistoryPath: file.Path,
		Created:     parseTimestamp(fm["created"]),
		LastActive:  parseTimestamp(fm["last_active"]),
		Context: Context{
			ContextDepth:        asInt(fm["context_depth"], defaultContextDepth),
			EnabledTools:        asStringSlice(fm["enabled_tools"]),
			RequireConfirmation: map[string]bool{},
		},
	}

	if source, _ := fm["source_note"].(string); source != "" {
		session.SourceNotePath = source
	}

	for _, ref := range asStringSlice(fm["context_files"]) {
		entry := m.resolveContextRef(ref)
		if entry == nil {
			logger.G(ctx).WithField("reference", ref).Warn("dropping unresolvable context file")
			continue
		}
		session.Context.AddContextFile(entry)
	}

	content, err := m.vault.Read(file.Path)
	if err == nil {
		session.Body = recordBody(content)
	}

	return session, nil
}

// resolveContextRef resolves one stored context reference. Wikilinks go
// through link resolution anchored at the vault root; anything else is
// treated as a legacy plain path. Both forms coexist for backward
// compatibility with older records.
func (m *Manager) resolveContextRef(ref string) *vault.Entry {
	if match := wikilinkPattern.FindStringSubmatch(strings.TrimSpace(ref)); match != nil {
		return m.vault.ResolveLink(match[1], "")
	}

	entry := m.vault.GetByPath(ref)
	if entry == nil || entry.IsDir {
		return nil
	}
	return entry
}

// recordHeader is the wire shape of the frontmatter block. Field order here
// is the order written to disk.
type recordHeader struct {
	SessionID    string   `yaml:"session_id"`
	Type         string   `yaml:"type"`
	Title        string   `yaml:"title"`
	SourceNote   string   `yaml:"source_note,omitempty"`
	ContextFiles []string `yaml:"context_files"`
	ContextDepth int      `yaml:"context_depth"`
	EnabledTools []string `yaml:"enabled_tools"`
	Created      string   `yaml:"created"`
	LastActive   string   `yaml:"last_active"`
}

// SaveSession serializes the session to its history path, creating the
// history folder as needed. Folder or write failures propagate to the caller.
func (m *Manager) SaveSession(ctx context.Context, session *Session) error {
	if err := m.vault.CreateFolder(path.Dir(session.HistoryPath)); err != nil {
		return errors.Wrap(err, "failed to create session folder")
	}

	now := time.Now()
	if session.Created.IsZero() {
		session.Created = now
	}
	if session.LastActive.IsZero() {
		session.LastActive = now
	}

	refs := make([]string, 0, len(session.Context.ContextFiles))
	for _, f := range session.Context.ContextFiles {
		refs = append(refs, "[["+f.Basename()+"]]")
	}

	header := recordHeader{
		SessionID:    session.ID,
		Type:         string(session.Type),
		Title:        session.Title,
		SourceNote:   session.SourceNotePath,
		ContextFiles: refs,
		ContextDepth: session.Context.ContextDepth,
		EnabledTools: session.Context.EnabledTools,
		Created:      session.Created.UTC().Format(time.RFC3339),
		LastActive:   session.LastActive.UTC().Format(time.RFC3339),
	}

	encoded, err := yaml.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to encode session header")
	}

	record := "---\n" + string(encoded) + "---\n\n" + session.Body
	if err := m.vault.Write(session.HistoryPath, record); err != nil {
		return errors.Wrapf(err, "failed to write session record %s", session.HistoryPath)
	}

	logger.G(ctx).WithField("session", session.ID).Debug("saved session record")
	return nil
}

// Summary is a listing row for the history browser.
type Summary struct {
	ID         string
	Title      string
	Type       Type
	Path       string
	LastActive time.Time
}

// ListSessions loads every record in the history root, skipping unparsable
// ones, sorted by most recent activity.
func (m *Manager) ListSessions(ctx context.Context) []Summary {
	entries, err := m.vault.List(m.historyRoot)
	if err != nil {
		return nil
	}

	var summaries []Summary
	for _, entry := range entries {
		if entry.IsDir || !strings.HasSuffix(entry.Path, ".md") {
			continue
		}
		session, err := m.LoadSessionFromFile(ctx, entry)
		if err != nil {
			logger.G(ctx).WithField("record", entry.Path).WithError(err).Warn("skipping unparsable session record")
			continue
		}
		summaries = append(summaries, Summary{
			ID:         session.ID,
			Title:      session.Title,
			Type:       session.Type,
			Path:       session.HistoryPath,
			LastActive: session.LastActive,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastActive.After(summaries[j].LastActive)
	})
	return summaries
}

// recordBody strips the frontmatter block from a record's raw content.
func recordBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}

func parseTimestamp(value any) time.Time {
	str, _ := value.(string)
	if str == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func asInt(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		if v >= 0 {
			return v
		}
	case int64:
		if v >= 0 {
			return int(v)
		}
	case float64:
		if v >= 0 {
			return int(v)
		}
	case uint64:
		return int(v)
	}
	return fallback
}

func asStringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
