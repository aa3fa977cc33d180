package domain

import "context"

// Features is the input vector for the remote risk classifier.
type Features struct {
	Magnitude     float64 `json:"magnitude"`
	Depth         float64 `json:"depth"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Significance  float64 `json:"significance"`
	MagnitudeType string  `json:"magnitude_type"`
}

// Prediction is the classifier's risk tier for a feature vector. The label
// set is owned by the remote model and passed through unvalidated.
type Prediction struct {
	Label string
}

// Classifier assigns a risk tier to a set of event features.
type Classifier interface {
	Predict(ctx context.Context, features Features) (Prediction, error)
}
