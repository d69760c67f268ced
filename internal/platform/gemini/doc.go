// Package gemini adapts Google's Gemini API to the generation.ChatModel
// interface.
//
// The adapter is an infrastructure boundary: it turns a generation.ChatRequest
// into a GenerateContent call and returns the concatenated text of the first
// candidate. It never parses the reply; extraction and normalization of the
// plan stay in the generation package so every provider shares them.
//
// When structured output is requested the call carries a response schema
// describing the bouquet plan. Gemini schemas cannot express objects with
// free-form keys, so the schema lists flowers and decorations as arrays of
// {name, quantity} objects, a shape the generation normalizer accepts.
//
// Failures are classified for the caller:
//   - replies stopped by safety filters wrap generation.ErrContentBlocked
//   - replies with no text wrap generation.ErrEmptyResponse
//   - everything else wraps generation.ErrTransport
package gemini
