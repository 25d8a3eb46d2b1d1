package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/perivale/classify-api/internal/imaging"
	"github.com/perivale/classify-api/internal/model"
)

// Predictor runs one forward pass over a preprocessed input buffer.
type Predictor interface {
	Predict(input []float32) ([]model.Prediction, error)
}

// ImageSource fetches and decodes a remote image.
type ImageSource interface {
	Fetch(ctx context.Context, rawURL string) (image.Image, error)
}

type Handler struct {
	predictor Predictor
	images    ImageSource
	inputSize int
}

func NewHandler(predictor Predictor, images ImageSource, inputSize int) *Handler {
	return &Handler{
		predictor: predictor,
		images:    images,
		inputSize: inputSize,
	}
}

// Classify is the transport-agnostic core: method and raw query URL in,
// outcome out. Both the HTTP and the Lambda adapters funnel through here.
func (h *Handler) Classify(ctx context.Context, method, rawURL string) Outcome {
	requestID := uuid.NewString()

	if method != http.MethodGet {
		return Outcome{Status: StatusBadMethod, Err: fmt.Errorf("method %s not supported", method)}
	}
	if rawURL == "" {
		return Outcome{Status: StatusInvalidInput, Err: errors.New("missing url query parameter")}
	}
	if err := imaging.ValidateURL(rawURL); err != nil {
		return Outcome{Status: StatusInvalidInput, Err: err}
	}

	log.Printf("[%s] Classifying %s", requestID, rawURL)

	img, err := h.images.Fetch(ctx, rawURL)
	if err != nil {
		log.Printf("[%s] Image fetch error: %v", requestID, err)
		return Outcome{Status: StatusFetchFailed, Err: err}
	}

	input := imaging.Preprocess(img, h.inputSize)

	predictions, err := h.predictor.Predict(input)
	if err != nil || len(predictions) == 0 {
		log.Printf("[%s] Prediction error: %v", requestID, err)
		return Outcome{Status: StatusInternal, Err: errors.New("inference failed")}
	}

	log.Printf("[%s] Top prediction: %s", requestID, predictions[0].Class)
	return Outcome{Status: StatusOK, Predictions: predictions}
}

// Predict is the net/http adapter for GET /predict?url=<image-url>.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	outcome := h.Classify(r.Context(), r.Method, r.URL.Query().Get("url"))
	writeOutcome(w, outcome)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func writeOutcome(w http.ResponseWriter, o Outcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(o.HTTPStatus())
	if err := json.NewEncoder(w).Encode(o.Body()); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
