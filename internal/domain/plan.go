package domain

// LineItem is a single named entry of a shopping list. Quantity is zero when
// the language model omitted it or produced something non-numeric.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ShoppingList groups the flowers and decorations needed for a bouquet.
// Entries keep the order in which the language model listed them.
type ShoppingList struct {
	Flowers     []LineItem `json:"flowers"`
	Decorations []LineItem `json:"decorations"`
}

// IsEmpty reports whether the list has neither flowers nor decorations.
func (s ShoppingList) IsEmpty() bool {
	return len(s.Flowers) == 0 && len(s.Decorations) == 0
}

// BouquetPlan is the structured result of language-model generation.
//
// Generation aims for a fixed number of arrangement steps, but consumers must
// not rely on it: ArrangementInstructions may hold any number of entries,
// including none.
type BouquetPlan struct {
	ShoppingList            ShoppingList `json:"shopping_list"`
	ArrangementInstructions []string     `json:"arrangement_instructions"`
	ImagePrompt             string       `json:"image_prompt"`
}

// NewEmptyPlan returns a plan whose every field holds its empty default.
func NewEmptyPlan() *BouquetPlan {
	return &BouquetPlan{
		ShoppingList: ShoppingList{
			Flowers:     []LineItem{},
			Decorations: []LineItem{},
		},
		ArrangementInstructions: []string{},
	}
}

// HasImagePrompt reports whether the plan carries a prompt worth sending to
// the image service.
func (p *BouquetPlan) HasImagePrompt() bool {
	return p != nil && p.ImagePrompt != ""
}

// FlowerNames returns the names of all flowers on the shopping list, in order.
func (p *BouquetPlan) FlowerNames() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.ShoppingList.Flowers))
	for _, item := range p.ShoppingList.Flowers {
		names = append(names, item.Name)
	}
	return names
}
