package domain

// PipelineState names a step of the bouquet pipeline. The orchestrator records
// every state it passes through on the result it returns.
type PipelineState string

// Pipeline states, in the order a successful request visits them.
const (
	StateReceived       PipelineState = "received"
	StatePlanGenerated  PipelineState = "plan_generated"
	StateImageAttempted PipelineState = "image_attempted"
	StateImageSkipped   PipelineState = "image_skipped"
	StateAssembled      PipelineState = "assembled"
	StateResponded      PipelineState = "responded"
	StateFailed         PipelineState = "failed"
)

// BouquetResult is the externally visible outcome of one request.
type BouquetResult struct {
	// Presentation is the rendered markup: the plan on success, a
	// human-readable error message on failure.
	Presentation string

	// Image is nil when no image was produced.
	Image *ImageArtifact

	// OK is false only when plan generation failed.
	OK bool

	// Trace lists the pipeline states visited, in order.
	Trace []PipelineState
}

// Record appends a state to the result's trace.
func (r *BouquetResult) Record(state PipelineState) {
	r.Trace = append(r.Trace, state)
}

// State returns the last recorded state, or "" if none was recorded.
func (r *BouquetResult) State() PipelineState {
	if len(r.Trace) == 0 {
		return ""
	}
	return r.Trace[len(r.Trace)-1]
}
