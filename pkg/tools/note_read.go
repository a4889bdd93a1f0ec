package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	tooltypes "github.com/jothq/jot/pkg/types/tools"
)

// ReadNoteTool returns the content of a single note.
type ReadNoteTool struct{}

type ReadNoteInput struct {
	Path string `json:"path" jsonschema:"description=Vault-relative path of the note to read"`
}

func (t *ReadNoteTool) Name() string                       { return "read_note" }
func (t *ReadNoteTool) Category() tooltypes.Category       { return tooltypes.CategoryReadOnly }
func (t *ReadNoteTool) GenerateSchema() *jsonschema.Schema { return GenerateSchema[ReadNoteInput]() }

func (t *ReadNoteTool) Description() string {
	return `Read the contents of a note in the vault.

Provide the vault-relative path including the .md extension, e.g. "projects/roadmap.md".`
}

func (t *ReadNoteTool) ValidateInput(parameters string) error {
	var input ReadNoteInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	if input.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

func (t *ReadNoteTool) Execute(_ context.Context, execCtx *tooltypes.ExecutionContext, parameters string) tooltypes.ToolResult {
	var input ReadNoteInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return tooltypes.Fail(err.Error())
	}

	file := execCtx.Vault.GetByPath(input.Path)
	if file == nil || file.IsDir {
		return tooltypes.Fail(fmt.Sprintf("note %q not found", input.Path))
	}

	content, err := execCtx.Vault.Read(input.Path)
	if err != nil {
		return tooltypes.Fail(fmt.Sprintf("failed to read %s: %s", input.Path, err.Error()))
	}

	return tooltypes.Ok(map[string]any{
		"path":    input.Path,
		"content": content,
	})
}

// ListNotesTool lists markdown files, optionally under one folder.
type ListNotesTool struct{}

type ListNotesInput struct {
	Folder string `json:"folder,omitempty" jsonschema:"description=Optional vault-relative folder to list. Lists the whole vault when omitted."`
}

func (t *ListNotesTool) Name() string                       { return "list_notes" }
func (t *ListNotesTool) Category() tooltypes.Category       { return tooltypes.CategoryReadOnly }
func (t *ListNotesTool) GenerateSchema() *jsonschema.Schema { return GenerateSchema[ListNotesInput]() }

func (t *ListNotesTool) Description() string {
	return `List markdown notes in the vault, optionally limited to a folder.`
}

func (t *ListNotesTool) ValidateInput(parameters string) error {
	var input ListNotesInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	return nil
}

func (t *ListNotesTool) Execute(_ context.Context, execCtx *tooltypes.ExecutionContext, parameters string) tooltypes.ToolResult {
	var input ListNotesInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return tooltypes.Fail(err.Error())
	}

	prefix := strings.Trim(input.Folder, "/")
	var paths []string
	for _, f := range execCtx.Vault.MarkdownFiles() {
		if prefix != "" && !strings.HasPrefix(f.Path, prefix+"/") {
			continue
		}
		paths = append(paths, f.Path)
	}

	if prefix != "" && len(paths) == 0 {
		if folder := execCtx.Vault.GetByPath(prefix); folder == nil {
			return tooltypes.Fail(fmt.Sprintf("folder %q not found", input.Folder))
		}
	}

	return tooltypes.Ok(map[string]any{
		"notes": paths,
		"count": len(paths),
	})
}

// SearchNotesTool scans note content for a query string.
type SearchNotesTool struct{}

type SearchNotesInput struct {
	Query string `json:"query" jsonschema:"description=Case-insensitive text to search for in note content"`
}

func (t *SearchNotesTool) Name() string                 { return "search_notes" }
func (t *SearchNotesTool) Category() tooltypes.Category { return tooltypes.CategoryReadOnly }
func (t *SearchNotesTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[SearchNotesInput]()
}

func (t *SearchNotesTool) Description() string {
	return `Search all notes for a text fragment and return the paths of matching notes.`
}

func (t *SearchNotesTool) ValidateInput(parameters string) error {
	var input SearchNotesInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	if input.Query == "" {
		return errors.New("query is required")
	}
	return nil
}

func (t *SearchNotesTool) Execute(_ context.Context, execCtx *tooltypes.ExecutionContext, parameters string) tooltypes.ToolResult {
	var input SearchNotesInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return tooltypes.Fail(err.Error())
	}

	needle := strings.ToLower(input.Query)
	var matches []string
	for _, f := range execCtx.Vault.MarkdownFiles() {
		content, err := execCtx.Vault.Read(f.Path)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(content), needle) {
			matches = append(matches, f.Path)
		}
	}

	return tooltypes.Ok(map[string]any{
		"query":   input.Query,
		"matches": matches,
		"count":   len(matches),
	})
}
