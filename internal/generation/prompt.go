package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

// DefaultInstructionSteps is the number of arrangement steps requested when
// none is configured.
const DefaultInstructionSteps = 4

//go:embed prompts/system.tmpl
var systemTemplateText string

var systemTemplate = template.Must(template.New("system").Parse(systemTemplateText))

// promptData represents the data passed to the system instruction template
type promptData struct {
	Steps int
}

// BuildSystemInstruction renders the instruction that constrains the model to
// the plan schema, asking for the given number of arrangement steps.
func BuildSystemInstruction(steps int) (string, error) {
	if steps < 1 {
		steps = DefaultInstructionSteps
	}

	var buf bytes.Buffer
	if err := systemTemplate.Execute(&buf, promptData{Steps: steps}); err != nil {
		return "", fmt.Errorf("failed to execute system instruction template: %w", err)
	}
	return buf.String(), nil
}

// BuildUserMessage embeds the raw description in the user turn. The
// description is passed through unchanged, empty included.
func BuildUserMessage(description string) string {
	return fmt.Sprintf("Create a bouquet plan for: %q", description)
}
