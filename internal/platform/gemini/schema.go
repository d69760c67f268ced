package gemini

import "google.golang.org/genai"

// planSchema describes the bouquet plan for schema-constrained replies.
func planSchema() *genai.Schema {
	item := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     {Type: genai.TypeString, Description: "Flower or decoration name"},
			"quantity": {Type: genai.TypeInteger, Description: "Whole number of stems or pieces"},
		},
		Required: []string{"name", "quantity"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"shopping_list": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"flowers":     {Type: genai.TypeArray, Items: item},
					"decorations": {Type: genai.TypeArray, Items: item},
				},
				Required: []string{"flowers", "decorations"},
			},
			"arrangement_instructions": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"image_prompt": {Type: genai.TypeString},
		},
		Required: []string{"shopping_list", "arrangement_instructions", "image_prompt"},
	}
}
