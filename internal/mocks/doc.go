// Package mocks provides centralized mock implementations for testing.
//
// Each mock has a function field per interface method for custom behavior,
// default return values for the common case, and call tracking for
// verification:
//
//	gen := mocks.NewMockPlanGeneratorWithError(generation.ErrGenerationFailed)
//	images := &mocks.MockImageSynthesizer{}
//	svc, _ := service.NewBouquetService(gen, images, render.NewAssembler(), logger, service.Options{})
//	...
//	assert.Zero(t, images.SynthesizeCalls.Count)
package mocks
