// Package generation turns a free-text bouquet description into a validated
// domain.BouquetPlan using a language model.
//
// The package owns everything between the raw description and the plan:
//
//   - the system instruction that constrains the model to a single JSON object
//     (prompt.go and prompts/)
//   - the ChatModel port that provider adapters (Gemini, OpenAI-compatible)
//     implement (model.go)
//   - extraction of the JSON payload from surrounding prose or code fences
//     (extract.go)
//   - normalization of a loosely shaped document into a fully defaulted plan
//     (normalize.go)
//   - the bounded retry policy applied to unparsable replies (retry.go)
//
// Only a reply that cannot be parsed as a JSON object at all is a hard error;
// missing or mis-shaped fields are defaulted, since the model is not
// contractually bound to the schema.
package generation
