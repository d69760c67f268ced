// Package render turns bouquet plans into the HTML presentation returned to
// clients.
package render

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/phrazzld/bouquet-api/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// fallbackPresentation is returned if the template cannot be executed. It
// keeps the section structure so clients never see a bare string.
const fallbackPresentation = "<h3>רשימת פרחים:</h3><ul></ul><h3>קישוטים:</h3><ul></ul><h3>הוראות סידור:</h3><ol></ol>"

// DefaultFailureMessage is shown when plan generation fails. Upstream error
// text is never echoed to clients.
const DefaultFailureMessage = "לא הצלחנו ליצור תוכנית זר כרגע. נסו שוב בעוד רגע."

// Assembler renders plans. Its output is a pure function of its input.
type Assembler struct{}

// NewAssembler creates an Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

type presentationData struct {
	Flowers     []domain.LineItem
	Decorations []domain.LineItem
	Steps       []string
}

// Assemble merges plan and image into a successful result. A nil or partial
// plan renders as empty sections; a nil image means no image.
func (a *Assembler) Assemble(plan *domain.BouquetPlan, image *domain.ImageArtifact) *domain.BouquetResult {
	data := presentationData{}
	if plan != nil {
		data.Flowers = plan.ShoppingList.Flowers
		data.Decorations = plan.ShoppingList.Decorations
		data.Steps = plan.ArrangementInstructions
	}

	return &domain.BouquetResult{
		Presentation: execute("presentation", data, fallbackPresentation),
		Image:        image,
		OK:           true,
	}
}

// RenderFailure builds the result returned when no plan could be produced.
// An empty message uses DefaultFailureMessage.
func (a *Assembler) RenderFailure(message string) *domain.BouquetResult {
	if message == "" {
		message = DefaultFailureMessage
	}
	return &domain.BouquetResult{
		Presentation: execute("failure", message, "<p>"+template.HTMLEscapeString(message)+"</p>"),
		OK:           false,
	}
}

func execute(name string, data any, fallback string) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fallback
	}
	return buf.String()
}
