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

// ActivateSkillTool loads a skill's full instructions (level 2) or a specific
// resource file from its directory (level 3). Misses come back with recovery
// hints so the model can correct itself without another round of guessing.
type ActivateSkillTool struct{}

type ActivateSkillInput struct {
	Name         string `json:"name" jsonschema:"description=The name of the skill to activate such as code-review"`
	ResourcePath string `json:"resource_path,omitempty" jsonschema:"description=Optional path to a resource file within the skill directory relative to the skill root such as references/REFERENCE.md. Omit to get the full SKILL.md instructions."`
}

func (t *ActivateSkillTool) Name() string                 { return "activate_skill" }
func (t *ActivateSkillTool) Category() tooltypes.Category { return tooltypes.CategorySkills }
func (t *ActivateSkillTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[ActivateSkillInput]()
}

func (t *ActivateSkillTool) Description() string {
	return `Load a skill's full instructions or a specific resource file. Use this when you need the detailed instructions from an available skill. Call with just the skill name to get the full SKILL.md instructions, or include a resource_path to read a specific file from the skill directory (e.g. "references/REFERENCE.md" or "assets/template.md").`
}

func (t *ActivateSkillTool) ValidateInput(parameters string) error {
	var input ActivateSkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	if input.Name == "" {
		return errors.New("skill name is required")
	}
	return nil
}

func (t *ActivateSkillTool) Execute(ctx context.Context, execCtx *tooltypes.ExecutionContext, parameters string) tooltypes.ToolResult {
	var input ActivateSkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return tooltypes.Fail(err.Error())
	}

	if execCtx.Skills == nil {
		return tooltypes.Fail("skill store not available")
	}

	if input.ResourcePath != "" {
		content, found := execCtx.Skills.ReadSkillResource(ctx, input.Name, input.ResourcePath)
		if !found {
			result := tooltypes.Fail(fmt.Sprintf("resource %q not found in skill %q", input.ResourcePath, input.Name))
			if resources := execCtx.Skills.ListSkillResources(ctx, input.Name); len(resources) > 0 {
				result.Data = map[string]any{"availableResources": resources}
			}
			return result
		}
		return tooltypes.Ok(map[string]any{
			"skillName":    input.Name,
			"resourcePath": input.ResourcePath,
			"content":      content,
		})
	}

	content, found := execCtx.Skills.LoadSkill(ctx, input.Name)
	if !found {
		result := tooltypes.Fail(fmt.Sprintf("skill %q not found", input.Name))
		summaries := execCtx.Skills.Summaries(ctx)
		if len(summaries) == 0 {
			result.Data = map[string]any{"message": "No skills are currently installed"}
			return result
		}
		names := make([]string, 0, len(summaries))
		for _, s := range summaries {
			names = append(names, s.Name)
		}
		result.Data = map[string]any{"availableSkills": names}
		return result
	}

	data := map[string]any{
		"skillName": input.Name,
		"content":   content,
	}
	if resources := execCtx.Skills.ListSkillResources(ctx, input.Name); len(resources) > 0 {
		data["availableResources"] = resources
	}
	return tooltypes.Ok(data)
}

// CreateSkillTool authors a new skill through the skill store.
type CreateSkillTool struct{}

type CreateSkillInput struct {
	Name        string `json:"name" jsonschema:"description=The name of the skill: 1-64 chars of lowercase alphanumerics and hyphens such as meeting-notes"`
	Description string `json:"description" jsonschema:"description=What this skill does and when to use it"`
	Content     string `json:"content" jsonschema:"description=The full markdown body of the SKILL.md file with instructions and examples and edge cases"`
}

func (t *CreateSkillTool) Name() string                 { return "create_skill" }
func (t *CreateSkillTool) Category() tooltypes.Category { return tooltypes.CategorySkills }
func (t *CreateSkillTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[CreateSkillInput]()
}

func (t *CreateSkillTool) Description() string {
	return `Create a new agent skill with a SKILL.md manifest. The skill is saved in the skills directory and becomes available via activate_skill.`
}

func (t *CreateSkillTool) RequiresConfirmation() bool { return true }

func (t *CreateSkillTool) ConfirmationPrompt(parameters string) string {
	var input CreateSkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return "Create a new skill?"
	}
	return fmt.Sprintf("Create new skill %q:\n\n%s", input.Name, truncate(input.Description, truncateLimit))
}

func (t *CreateSkillTool) ValidateInput(parameters string) error {
	var input CreateSkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	if strings.TrimSpace(input.Name) == "" {
		return errors.New("skill name is required and must be a non-empty string")
	}
	if strings.TrimSpace(input.Description) == "" {
		return errors.New("skill description is required and must be a non-empty string")
	}
	if strings.TrimSpace(input.Content) == "" {
		return errors.New("skill content is required and must be a non-empty string")
	}
	return nil
}

func (t *CreateSkillTool) Execute(ctx context.Context, execCtx *tooltypes.ExecutionContext, parameters string) tooltypes.ToolResult {
	var input CreateSkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return tooltypes.Fail(err.Error())
	}

	if execCtx.Skills == nil {
		return tooltypes.Fail("skill store not available")
	}

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	content := strings.TrimSpace(input.Content)

	manifestPath, err := execCtx.Skills.CreateSkill(ctx, name, description, content)
	if err != nil {
		return tooltypes.Fail(fmt.Sprintf("failed to create skill: %s", err.Error()))
	}

	return tooltypes.Ok(map[string]any{
		"path":    manifestPath,
		"name":    name,
		"message": fmt.Sprintf("Skill %q created successfully. It will be available via activate_skill in future sessions.", name),
	})
}
