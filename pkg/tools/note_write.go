package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	tooltypes "github.com/jothq/jot/pkg/types/tools"
)

// WriteNoteTool creates a new note. It is the vault-mutation tool and prompts
// for confirmation by default.
type WriteNoteTool struct{}

type WriteNoteInput struct {
	Path    string `json:"path" jsonschema:"description=Vault-relative path of the note to create including the .md extension"`
	Content string `json:"content" jsonschema:"description=Markdown content of the new note"`
}

func (t *WriteNoteTool) Name() string                       { return "write_note" }
func (t *WriteNoteTool) Category() tooltypes.Category       { return tooltypes.CategoryVaultOperations }
func (t *WriteNoteTool) GenerateSchema() *jsonschema.Schema { return GenerateSchema[WriteNoteInput]() }

func (t *WriteNoteTool) Description() string {
	return `Create a new note in the vault. Fails if a note already exists at the given path; missing parent folders are created.`
}

func (t *WriteNoteTool) RequiresConfirmation() bool { return true }

func (t *WriteNoteTool) ConfirmationPrompt(parameters string) string {
	var input WriteNoteInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return "Create a new note?"
	}
	return fmt.Sprintf("Create note %q:\n\n%s", input.Path, truncate(input.Content, truncateLimit))
}

func (t *WriteNoteTool) ValidateInput(parameters string) error {
	var input WriteNoteInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	if input.Path == "" {
		return errors.New("path is required")
	}
	if input.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

func (t *WriteNoteTool) Execute(_ context.Context, execCtx *tooltypes.ExecutionContext, parameters string) tooltypes.ToolResult {
	var input WriteNoteInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return tooltypes.Fail(err.Error())
	}

	if existing := execCtx.Vault.GetByPath(input.Path); existing != nil {
		return tooltypes.Fail(fmt.Sprintf("note %q already exists", input.Path))
	}

	if parent := path.Dir(input.Path); parent != "." && parent != "/" {
		if err := execCtx.Vault.CreateFolder(parent); err != nil {
			return tooltypes.Fail(fmt.Sprintf("failed to create folder %s: %s", parent, err.Error()))
		}
	}

	if err := execCtx.Vault.Create(input.Path, input.Content); err != nil {
		return tooltypes.Fail(fmt.Sprintf("failed to create note: %s", err.Error()))
	}

	return tooltypes.Ok(map[string]any{
		"path":    input.Path,
		"message": fmt.Sprintf("Note %q created", input.Path),
	})
}
