package model

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// DefaultTopK is how many predictions Predict returns when the model has at
// least that many classes.
const DefaultTopK = 5

// Server owns one ONNX session and the parsed label list. It is built once
// per execution environment and is read-only afterwards; the session's shared
// tensor buffers make Run a critical section.
type Server struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]

	Metadata Metadata
	Labels   []string
}

func NewServer(weightsPath, metadataPath, labelsPath string) (*Server, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	metaFile, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var metadata Metadata
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if len(metadata.OutputShape) == 0 {
		return nil, fmt.Errorf("metadata has no output shape")
	}
	if metadata.ImageSize <= 0 {
		return nil, fmt.Errorf("metadata image_size must be positive, got %d", metadata.ImageSize)
	}

	labelsFile, err := os.Open(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels: %w", err)
	}
	defer labelsFile.Close()

	labels, err := ParseLabels(labelsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse labels: %w", err)
	}

	// The label list must line up with the output vector, otherwise top-k
	// indices can fall outside the list.
	classes := int(metadata.OutputShape[len(metadata.OutputShape)-1])
	if len(labels) != classes {
		return nil, fmt.Errorf("label count %d does not match model output width %d",
			len(labels), classes)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(weightsPath,
		[]string{metadata.InputName}, []string{metadata.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Server{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		Metadata:     metadata,
		Labels:       labels,
	}, nil
}

// InputSize reports the spatial input dimension (224 for this model family).
func (s *Server) InputSize() int {
	return s.Metadata.ImageSize
}

// Predict runs one forward pass over a preprocessed CHW float32 buffer and
// returns the top predictions in descending-probability order.
func (s *Server) Predict(inputData []float32) ([]Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(inputData) != len(s.inputTensor.GetData()) {
		return nil, fmt.Errorf("expected %d input values, got %d",
			len(s.inputTensor.GetData()), len(inputData))
	}
	copy(s.inputTensor.GetData(), inputData)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	probs := s.outputTensor.GetData()

	var sum float32
	for _, p := range probs {
		sum += p
	}
	if sum < 0.99 || sum > 1.01 {
		log.Printf("Output probabilities sum to %.4f; model output is not softmax-normalized", sum)
	}

	top := TopK(probs, DefaultTopK)

	predictions := make([]Prediction, 0, len(top))
	for _, i := range top {
		predictions = append(predictions, Prediction{
			Probability: probs[i],
			Class:       s.Labels[i],
		})
	}
	return predictions, nil
}

func (s *Server) Close() {
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
	ort.DestroyEnvironment()
}
