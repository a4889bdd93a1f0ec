// Package tools provides the tool execution framework: the registry of
// available tools, input validation, confirmation gating for side-effecting
// tools, and traced execution with normalized results.
package tools

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jothq/jot/pkg/logger"
	"github.com/jothq/jot/pkg/telemetry"
	tooltypes "github.com/jothq/jot/pkg/types/tools"
)

// GenerateSchema reflects a parameter struct into a JSON schema with
// inlined definitions, the shape the declaration adapter expects.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// toolRegistry holds all available tools mapped by their names.
var toolRegistry = map[string]tooltypes.Tool{
	"read_note":      &ReadNoteTool{},
	"list_notes":     &ListNotesTool{},
	"search_notes":   &SearchNotesTool{},
	"write_note":     &WriteNoteTool{},
	"activate_skill": &ActivateSkillTool{},
	"create_skill":   &CreateSkillTool{},
}

// defaultTools is the tool set new sessions start with.
var defaultTools = []string{
	"read_note",
	"list_notes",
	"search_notes",
	"write_note",
	"activate_skill",
	"create_skill",
}

// DefaultToolNames returns the tool names enabled for new sessions.
func DefaultToolNames() []string {
	names := make([]string, len(defaultTools))
	copy(names, defaultTools)
	return names
}

// ValidateToolNames rejects unknown tool names.
func ValidateToolNames(names []string) error {
	for _, name := range names {
		if _, exists := toolRegistry[name]; !exists {
			return fmt.Errorf("unknown tool: %s", name)
		}
	}
	return nil
}

// GetToolsFromNames resolves tool names to descriptors, preserving order and
// dropping duplicates and unknown names.
func GetToolsFromNames(names []string) []tooltypes.Tool {
	seen := make(map[string]bool, len(names))
	var resolved []tooltypes.Tool
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if tool, exists := toolRegistry[name]; exists {
			resolved = append(resolved, tool)
		}
	}
	return resolved
}

var tracer = telemetry.Tracer("jot.tools")

// RunTool executes a named tool call: validates input, applies confirmation
// gating, and returns the normalized result. Validation and business failures
// come back as failed results; nothing is thrown past the tool boundary.
func RunTool(ctx context.Context, execCtx *tooltypes.ExecutionContext, toolName, parameters string) tooltypes.ToolResult {
	tool, exists := toolRegistry[toolName]
	if !exists {
		return tooltypes.Fail(fmt.Sprintf("unknown tool: %s", toolName))
	}

	ctx, span := tracer.Start(
		ctx,
		fmt.Sprintf("tools.run_tool.%s", toolName),
		trace.WithAttributes(
			attribute.String("tool.name", toolName),
			attribute.String("tool.category", string(tool.Category())),
			attribute.String("session.id", execCtx.SessionID),
		),
	)
	defer span.End()

	if err := tool.ValidateInput(parameters); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return tooltypes.Fail(err.Error())
	}

	if execCtx.NeedsConfirmation(tool) && execCtx.Confirm != nil {
		prompt := confirmationPrompt(tool, parameters)
		if !execCtx.Confirm(ctx, prompt) {
			logger.G(ctx).WithField("tool", toolName).Info("tool call declined by user")
			span.SetStatus(codes.Ok, "")
			return tooltypes.Fail(fmt.Sprintf("user declined to run %s", toolName))
		}
	}

	result := tool.Execute(ctx, execCtx, parameters)
	if !result.Success {
		span.SetStatus(codes.Error, result.Error)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return result
}

// confirmationPrompt computes the per-call prompt, falling back to a generic
// one for tools without a Confirmable implementation.
func confirmationPrompt(tool tooltypes.Tool, parameters string) string {
	if confirmable, ok := tool.(tooltypes.Confirmable); ok {
		return confirmable.ConfirmationPrompt(parameters)
	}
	return fmt.Sprintf("Run tool %q?", tool.Name())
}

// truncateLimit bounds free-text fields embedded in confirmation prompts.
const truncateLimit = 200

// truncate shortens free text for confirmation prompts.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
