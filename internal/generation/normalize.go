package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/phrazzld/bouquet-api/internal/domain"
)

// Field names accepted for each part of the plan. The first name is the one
// the system instruction asks for; the rest are spellings models produce
// anyway, including Hebrew keys.
var (
	shoppingListKeys = []string{"shopping_list", "shoppingList"}
	instructionsKeys = []string{"arrangement_instructions", "arrangementInstructions", "instructions"}
	imagePromptKeys  = []string{"image_prompt", "imagePrompt"}
	flowersKeys      = []string{"flowers", "פרחים"}
	decorationsKeys  = []string{"decorations", "קישוטים"}
	itemNameKeys     = []string{"name", "item", "flower"}
	itemQtyKeys      = []string{"quantity", "qty", "count", "amount"}
	stepTextKeys     = []string{"text", "step", "instruction", "description"}
)

var errNotObject = errors.New("not a JSON object")

// NormalizePlan builds a fully defaulted plan from a loosely shaped JSON
// document. It fails with ErrInvalidJSON only when raw is not a JSON object;
// every missing or mis-shaped field falls back to its empty default.
func NormalizePlan(raw []byte) (*domain.BouquetPlan, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, errNotObject)
	}

	plan := domain.NewEmptyPlan()

	if listRaw, ok := lookup(doc, shoppingListKeys); ok {
		var list map[string]json.RawMessage
		if err := json.Unmarshal(listRaw, &list); err == nil {
			if v, ok := lookup(list, flowersKeys); ok {
				plan.ShoppingList.Flowers = normalizeItems(v)
			}
			if v, ok := lookup(list, decorationsKeys); ok {
				plan.ShoppingList.Decorations = normalizeItems(v)
			}
		}
	}

	if v, ok := lookup(doc, instructionsKeys); ok {
		plan.ArrangementInstructions = normalizeSteps(v)
	}

	if v, ok := lookup(doc, imagePromptKeys); ok {
		var prompt string
		if err := json.Unmarshal(v, &prompt); err == nil {
			plan.ImagePrompt = strings.TrimSpace(prompt)
		}
	}

	return plan, nil
}

// lookup returns the first of keys present in doc with a non-null value.
func lookup(doc map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := doc[k]; ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// normalizeItems accepts either a name→quantity object or an array of
// {name, quantity} objects (or bare names). Entries keep their order; empty
// names are dropped. Within an object a repeated name keeps its first
// position and its last quantity.
func normalizeItems(raw json.RawMessage) []domain.LineItem {
	items := []domain.LineItem{}

	switch firstByte(raw) {
	case '{':
		entries, err := decodeOrderedObject(raw)
		if err != nil {
			return items
		}
		index := make(map[string]int, len(entries))
		for _, e := range entries {
			name := strings.TrimSpace(e.key)
			if name == "" {
				continue
			}
			qty := parseQuantity(e.value)
			if i, seen := index[name]; seen {
				items[i].Quantity = qty
				continue
			}
			index[name] = len(items)
			items = append(items, domain.LineItem{Name: name, Quantity: qty})
		}

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return items
		}
		for _, elem := range elems {
			if item, ok := itemFromElement(elem); ok {
				items = append(items, item)
			}
		}
	}

	return items
}

func itemFromElement(elem json.RawMessage) (domain.LineItem, bool) {
	switch firstByte(elem) {
	case '"':
		var name string
		if err := json.Unmarshal(elem, &name); err != nil {
			return domain.LineItem{}, false
		}
		name = strings.TrimSpace(name)
		return domain.LineItem{Name: name}, name != ""

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil {
			return domain.LineItem{}, false
		}
		nameRaw, ok := lookup(obj, itemNameKeys)
		if !ok {
			return domain.LineItem{}, false
		}
		var name string
		if err := json.Unmarshal(nameRaw, &name); err != nil {
			return domain.LineItem{}, false
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return domain.LineItem{}, false
		}
		item := domain.LineItem{Name: name}
		if qtyRaw, ok := lookup(obj, itemQtyKeys); ok {
			item.Quantity = parseQuantity(qtyRaw)
		}
		return item, true
	}

	return domain.LineItem{}, false
}

// parseQuantity reads a JSON number or a string starting with digits
// ("12", "12 stems"). Anything else, and anything below one, yields 0.
func parseQuantity(raw json.RawMessage) int {
	switch firstByte(raw) {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		return leadingInt(s)

	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0
		}
		if f < 1 || f > math.MaxInt32 {
			return 0
		}
		return int(math.Round(f))
	}

	return 0
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) || r > unicode.MaxASCII })
	if end == 0 {
		return 0
	}
	if end > 0 {
		s = s[:end]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// normalizeSteps returns the non-empty steps of a JSON array. Strings and
// numbers are taken as-is, objects contribute their text field; a value that
// is not an array yields no steps.
func normalizeSteps(raw json.RawMessage) []string {
	steps := []string{}
	if firstByte(raw) != '[' {
		return steps
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return steps
	}

	for _, elem := range elems {
		var step string
		switch firstByte(elem) {
		case '"':
			_ = json.Unmarshal(elem, &step)
		case '{':
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(elem, &obj); err == nil {
				if v, ok := lookup(obj, stepTextKeys); ok {
					_ = json.Unmarshal(v, &step)
				}
			}
		case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			step = string(bytes.TrimSpace(elem))
		}
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}

	return steps
}

type objectEntry struct {
	key   string
	value json.RawMessage
}

// decodeOrderedObject reads a JSON object's members in document order, which
// map decoding would lose.
func decodeOrderedObject(raw json.RawMessage) ([]objectEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	var entries []objectEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotObject
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		entries = append(entries, objectEntry{key: key, value: value})
	}

	return entries, nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
