// Package agent drives a conversational turn: it assembles the session's
// declared tools and resolved context notes, hands them to the model
// transport, dispatches requested tool calls through the registry, and
// records the exchange in the session's persisted body.
//
// The transport itself (streaming, retries, response parsing) lives outside
// this package; only its interface is known here.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/jothq/jot/pkg/gemini"
	"github.com/jothq/jot/pkg/logger"
	"github.com/jothq/jot/pkg/sessions"
	"github.com/jothq/jot/pkg/skills"
	"github.com/jothq/jot/pkg/telemetry"
	"github.com/jothq/jot/pkg/tools"
	tooltypes "github.com/jothq/jot/pkg/types/tools"
	"github.com/jothq/jot/pkg/vault"
)

// ContextFile is a resolved context note fed to the model.
type ContextFile struct {
	Path    string
	Content string
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolOutcome is the normalized result sent back for one tool call.
type ToolOutcome struct {
	ID     string
	Name   string
	Result tooltypes.ToolResult
}

// TurnRequest is everything the transport needs for one model call.
type TurnRequest struct {
	Message      string
	History      string
	ContextFiles []ContextFile
	Tools        []*genai.Tool
	Skills       []skills.Summary
}

// TurnResponse is the transport's parsed reply.
type TurnResponse struct {
	Text      string
	ToolCalls []ToolCall
}

// Transport is the model-calling boundary. Implementations own streaming,
// retry policy and response parsing.
type Transport interface {
	SendTurn(ctx context.Context, req *TurnRequest) (*TurnResponse, error)
	SendToolResults(ctx context.Context, outcomes []ToolOutcome) (*TurnResponse, error)
}

// Agent runs turns for sessions against one vault.
type Agent struct {
	vault         vault.Vault
	sessions      *sessions.Manager
	skills        *skills.Store
	transport     Transport
	searchEnabled bool
	// confirm prompts the user before gated tool calls; nil auto-approves.
	confirm func(ctx context.Context, prompt string) bool
}

// Option configures an Agent.
type Option func(*Agent)

// WithSearchAugmentation enables the built-in search tool entry.
func WithSearchAugmentation(enabled bool) Option {
	return func(a *Agent) { a.searchEnabled = enabled }
}

// WithConfirmer installs the prompt callback for confirmation-gated tools.
func WithConfirmer(confirm func(ctx context.Context, prompt string) bool) Option {
	return func(a *Agent) { a.confirm = confirm }
}

// New creates an agent.
func New(v vault.Vault, sessionManager *sessions.Manager, skillStore *skills.Store, transport Transport, opts ...Option) *Agent {
	a := &Agent{
		vault:     v,
		sessions:  sessionManager,
		skills:    skillStore,
		transport: transport,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var tracer = telemetry.Tracer("jot.agent")

// RunTurn executes one conversational turn and persists the updated session.
func (a *Agent) RunTurn(ctx context.Context, session *sessions.Session, message string) (string, error) {
	ctx, span := tracer.Start(ctx, "agent.run_turn")
	defer span.End()

	activeTools := tools.GetToolsFromNames(session.Context.EnabledTools)
	req := &TurnRequest{
		Message:      message,
		History:      session.Body,
		ContextFiles: a.resolveContext(ctx, session),
		Tools:        gemini.DeclareTools(activeTools, a.searchEnabled),
		Skills:       a.skills.Summaries(ctx),
	}

	execCtx := &tooltypes.ExecutionContext{
		Vault:               a.vault,
		Skills:              a.skills,
		SessionID:           session.ID,
		RequireConfirmation: session.Context.RequireConfirmation,
		Confirm:             a.confirm,
	}

	resp, err := a.transport.SendTurn(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "model call failed")
	}

	var transcript strings.Builder
	fmt.Fprintf(&transcript, "\n## User — %s\n\n%s\n", time.Now().Format("2006-01-02 15:04"), message)

	for len(resp.ToolCalls) > 0 {
		outcomes := make([]ToolOutcome, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			args, err := json.Marshal(call.Args)
			if err != nil {
				logger.G(ctx).WithError(err).WithField("tool", call.Name).Error("failed to encode tool arguments")
				continue
			}
			result := tools.RunTool(ctx, execCtx, call.Name, string(args))
			outcomes = append(outcomes, ToolOutcome{ID: call.ID, Name: call.Name, Result: result})
			fmt.Fprintf(&transcript, "\n> Tool `%s`: %s\n", call.Name, outcomeLine(result))
		}

		resp, err = a.transport.SendToolResults(ctx, outcomes)
		if err != nil {
			return "", errors.Wrap(err, "model call failed after tool results")
		}
	}

	fmt.Fprintf(&transcript, "\n## Assistant\n\n%s\n", resp.Text)

	session.Body += transcript.String()
	session.Touch()
	if err := a.sessions.SaveSession(ctx, session); err != nil {
		return "", err
	}

	return resp.Text, nil
}

// resolveContext loads the session's context notes and follows wikilinks in
// their content up to the session's context depth. Links that fail to resolve
// are skipped; notes are included at most once.
func (a *Agent) resolveContext(ctx context.Context, session *sessions.Session) []ContextFile {
	seen := make(map[string]bool)
	var resolved []ContextFile

	frontier := session.Context.ContextFiles
	for depth := 0; depth <= session.Context.ContextDepth && len(frontier) > 0; depth++ {
		var next []*vault.Entry
		for _, entry := range frontier {
			if entry == nil || seen[entry.Path] {
				continue
			}
			seen[entry.Path] = true

			content, err := a.vault.Read(entry.Path)
			if err != nil {
				logger.G(ctx).WithField("note", entry.Path).WithError(err).Warn("skipping unreadable context note")
				continue
			}
			resolved = append(resolved, ContextFile{Path: entry.Path, Content: content})

			if depth < session.Context.ContextDepth {
				for _, link := range extractWikilinks(content) {
					if linked := a.vault.ResolveLink(link, entry.Path); linked != nil && !seen[linked.Path] {
						next = append(next, linked)
					}
				}
			}
		}
		frontier = next
	}

	return resolved
}

func outcomeLine(result tooltypes.ToolResult) string {
	if result.Success {
		return "ok"
	}
	return "error: " + result.Error
}
