// Package tools defines the capability contract between the agent layer and
// its tools: a name, a category tag, a JSON-Schema parameter declaration and
// an execution function. Tools are stateless descriptors; everything they act
// on arrives through the ExecutionContext at call time.
package tools

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/jothq/jot/pkg/skills"
	"github.com/jothq/jot/pkg/vault"
)

// Category groups tools for enable/disable policy. It is a tag, not a
// hierarchy: every tool declares exactly one.
type Category string

const (
	// CategoryReadOnly tools only read vault content.
	CategoryReadOnly Category = "read_only"
	// CategoryVaultOperations tools mutate the vault.
	CategoryVaultOperations Category = "vault_operations"
	// CategorySkills tools interact with the skill store.
	CategorySkills Category = "skills"
)

// Categories is the fixed enumeration of tool categories.
var Categories = []Category{CategoryReadOnly, CategoryVaultOperations, CategorySkills}

// ExecutionContext carries the collaborators a tool may reference during a
// call. Tools never own session or skill data; cross-references are resolved
// lazily through this context.
type ExecutionContext struct {
	Vault     vault.Vault
	Skills    *skills.Store
	SessionID string
	// RequireConfirmation lists tool names the session forces a prompt for,
	// regardless of each tool's own default.
	RequireConfirmation map[string]bool
	// Confirm presents a prompt and reports approval. A nil Confirm
	// auto-approves, which hosts use for non-interactive runs.
	Confirm func(ctx context.Context, prompt string) bool
}

// NeedsConfirmation reports whether a call to the named tool must prompt,
// combining the tool's static default with the session override set.
func (c *ExecutionContext) NeedsConfirmation(tool Tool) bool {
	if c.RequireConfirmation[tool.Name()] {
		return true
	}
	confirmable, ok := tool.(Confirmable)
	return ok && confirmable.RequiresConfirmation()
}

// Tool is the uniform capability surface exposed to the model.
type Tool interface {
	Name() string
	Category() Category
	Description() string
	GenerateSchema() *jsonschema.Schema
	ValidateInput(parameters string) error
	Execute(ctx context.Context, execCtx *ExecutionContext, parameters string) ToolResult
}

// Confirmable is implemented by tools whose calls are gated behind a user
// prompt. ConfirmationPrompt is a function of the call parameters so the
// prompt can quote them; implementations truncate free-text fields to keep
// prompts scannable.
type Confirmable interface {
	RequiresConfirmation() bool
	ConfirmationPrompt(parameters string) string
}

// ToolResult is the normalized outcome of a tool call. Business failures are
// carried in Error with Success false; they never escape a tool as a Go error.
type ToolResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ok wraps data in a successful result.
func Ok(data any) ToolResult {
	return ToolResult{Success: true, Data: data}
}

// Fail builds a failed result from an error message.
func Fail(message string) ToolResult {
	return ToolResult{Success: false, Error: message}
}
