// Package service contains the bouquet use case: it coordinates plan
// generation, best-effort image synthesis and presentation rendering for one
// request.
//
// The pipeline is strictly sequential. Plan generation must succeed; its
// failure is the only error that reaches the caller, together with a rendered
// failure result. Image synthesis is always best-effort: any failure is logged
// and the response continues without an image. Services receive their
// collaborators through constructor injection and never depend on concrete
// infrastructure packages.
package service
