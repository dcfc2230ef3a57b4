// Package classify turns one frame's raw provider output into boolean
// condition signals, one per alert type.
package classify

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithGazeRatio sets the nose-offset to eye-distance ratio above which
// the gaze counts as deviated.
func WithGazeRatio(ratio float64) Option {
	return func(c *Classifier) {
		if ratio > 0 {
			c.gazeRatio = ratio
		}
	}
}

// WithMinConfidence sets the minimum detection confidence for object
// signals.
func WithMinConfidence(confidence float64) Option {
	return func(c *Classifier) {
		if confidence > 0 && confidence <= 1 {
			c.minConfidence = confidence
		}
	}
}

// WithTargetObjects replaces the target object label set.
func WithTargetObjects(labels []string) Option {
	return func(c *Classifier) {
		if len(labels) > 0 {
			targets := make([]string, len(labels))
			copy(targets, labels)
			c.targets = targets
		}
	}
}
