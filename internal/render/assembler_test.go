package render_test

import (
	"strings"
	"testing"

	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosesPlan() *domain.BouquetPlan {
	return &domain.BouquetPlan{
		ShoppingList: domain.ShoppingList{
			Flowers:     []domain.LineItem{{Name: "ורד אדום", Quantity: 12}},
			Decorations: []domain.LineItem{},
		},
		ArrangementInstructions: []string{"a", "b", "c", "d"},
		ImagePrompt:             "red roses bouquet",
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	result := render.NewAssembler().Assemble(rosesPlan(), nil)

	assert.True(t, result.OK)
	assert.Nil(t, result.Image)
	assert.Equal(t,
		"<h3>רשימת פרחים:</h3><ul><li>ורד אדום: 12</li></ul>"+
			"<h3>קישוטים:</h3><ul></ul>"+
			"<h3>הוראות סידור:</h3><ol><li>a</li><li>b</li><li>c</li><li>d</li></ol>",
		result.Presentation)
}

func TestAssembleIsDeterministic(t *testing.T) {
	t.Parallel()

	plan := rosesPlan()
	plan.ShoppingList.Flowers = append(plan.ShoppingList.Flowers,
		domain.LineItem{Name: "גיבסנית", Quantity: 5},
		domain.LineItem{Name: "אקליפטוס", Quantity: 3})
	image := &domain.ImageArtifact{Reference: "/images/x.png", MIMEType: "image/png"}

	a := render.NewAssembler()
	first := a.Assemble(plan, image)
	second := a.Assemble(plan, image)

	assert.Equal(t, first.Presentation, second.Presentation)
	assert.Same(t, image, first.Image)

	rose := strings.Index(first.Presentation, "ורד אדום")
	gyps := strings.Index(first.Presentation, "גיבסנית")
	euc := strings.Index(first.Presentation, "אקליפטוס")
	assert.True(t, rose < gyps && gyps < euc, "items keep plan order")
}

func TestAssembleToleratesEmptyPlans(t *testing.T) {
	t.Parallel()

	a := render.NewAssembler()
	for name, plan := range map[string]*domain.BouquetPlan{
		"nil plan":   nil,
		"zero plan":  {},
		"empty plan": domain.NewEmptyPlan(),
	} {
		result := a.Assemble(plan, nil)
		require.NotNil(t, result, name)
		assert.True(t, result.OK, name)
		for _, heading := range []string{"רשימת פרחים:", "קישוטים:", "הוראות סידור:"} {
			assert.Contains(t, result.Presentation, heading, name)
		}
	}
}

func TestAssembleEscapesModelText(t *testing.T) {
	t.Parallel()

	plan := &domain.BouquetPlan{
		ShoppingList: domain.ShoppingList{
			Flowers: []domain.LineItem{{Name: "<script>alert(1)</script>", Quantity: 1}},
		},
		ArrangementInstructions: []string{"cut & trim"},
	}

	result := render.NewAssembler().Assemble(plan, nil)
	assert.NotContains(t, result.Presentation, "<script>")
	assert.Contains(t, result.Presentation, "&lt;script&gt;")
	assert.Contains(t, result.Presentation, "cut &amp; trim")
}

func TestAssembleOmitsUnknownQuantity(t *testing.T) {
	t.Parallel()

	plan := &domain.BouquetPlan{ShoppingList: domain.ShoppingList{
		Decorations: []domain.LineItem{{Name: "סרט", Quantity: 0}},
	}}

	result := render.NewAssembler().Assemble(plan, nil)
	assert.Contains(t, result.Presentation, "<li>סרט</li>")
}

func TestRenderFailure(t *testing.T) {
	t.Parallel()

	a := render.NewAssembler()

	result := a.RenderFailure("")
	assert.False(t, result.OK)
	assert.Nil(t, result.Image)
	assert.Equal(t, "<p>שגיאה בעיבוד הבקשה: "+render.DefaultFailureMessage+"</p>", result.Presentation)

	custom := a.RenderFailure("timeout <5s>")
	assert.Equal(t, "<p>שגיאה בעיבוד הבקשה: timeout &lt;5s&gt;</p>", custom.Presentation)
}
