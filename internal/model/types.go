package model

// Metadata describes the network's tensor interface. It is the second of the
// three model artifacts, stored alongside the weights.
type Metadata struct {
	InputName   string  `json:"input_name"`
	OutputName  string  `json:"output_name"`
	InputShape  []int64 `json:"input_shape"`
	OutputShape []int64 `json:"output_shape"`
	ImageSize   int     `json:"image_size"`
}

// Prediction pairs one class label with its softmax probability.
type Prediction struct {
	Probability float32
	Class       string
}
