// Package domain contains the core entities of the bouquet planner: the incoming
// request, the structured plan produced by the language model, the optional
// generated image, and the assembled result returned to callers. None of these
// outlive a single request.
package domain
