// Package provider declares the signal provider contracts the engine
// consumes. The providers wrap camera capture and model inference,
// both of which live outside this repository.
package provider

import (
	"context"

	"github.com/okian/vigil/internal/domain/model"
)

// FaceProvider returns the faces detected in the latest frame, each as
// a set of named normalized landmarks.
type FaceProvider interface {
	DetectFaces(ctx context.Context) ([]model.Face, error)
}

// ObjectProvider returns the object detections for the latest frame.
type ObjectProvider interface {
	DetectObjects(ctx context.Context) ([]model.Detection, error)
}

// FaceProviderFunc adapts a function to FaceProvider.
type FaceProviderFunc func(ctx context.Context) ([]model.Face, error)

// DetectFaces implements FaceProvider.
func (f FaceProviderFunc) DetectFaces(ctx context.Context) ([]model.Face, error) {
	return f(ctx)
}

// ObjectProviderFunc adapts a function to ObjectProvider.
type ObjectProviderFunc func(ctx context.Context) ([]model.Detection, error)

// DetectObjects implements ObjectProvider.
func (f ObjectProviderFunc) DetectObjects(ctx context.Context) ([]model.Detection, error) {
	return f(ctx)
}
