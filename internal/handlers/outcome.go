package handlers

import (
	"net/http"
	"strconv"

	"github.com/perivale/classify-api/internal/model"
)

// Status classifies how a request ended. Every failure class maps to a
// deliberate HTTP status instead of collapsing to 200 with an empty body.
type Status int

const (
	StatusOK Status = iota
	StatusBadMethod
	StatusInvalidInput
	StatusFetchFailed
	StatusInternal
)

// Outcome is the transport-agnostic result of one classification attempt.
type Outcome struct {
	Status      Status
	Predictions []model.Prediction
	Err         error
}

// HTTPStatus maps an outcome to its response status code.
func (o Outcome) HTTPStatus() int {
	switch o.Status {
	case StatusOK:
		return http.StatusOK
	case StatusBadMethod:
		return http.StatusMethodNotAllowed
	case StatusInvalidInput:
		return http.StatusBadRequest
	case StatusFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type predictionJSON struct {
	// Probability is serialized as a decimal string, matching the wire
	// format downstream consumers already parse.
	Probability string `json:"probability"`
	Class       string `json:"class"`
}

type predictionsBody struct {
	Predictions []predictionJSON `json:"predictions"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Body returns the JSON-serializable response body for this outcome.
func (o Outcome) Body() any {
	if o.Status != StatusOK {
		b := errorBody{Error: statusMessage(o.Status)}
		if o.Err != nil {
			b.Details = o.Err.Error()
		}
		return b
	}

	out := predictionsBody{Predictions: make([]predictionJSON, 0, len(o.Predictions))}
	for _, p := range o.Predictions {
		out.Predictions = append(out.Predictions, predictionJSON{
			Probability: strconv.FormatFloat(float64(p.Probability), 'f', -1, 32),
			Class:       p.Class,
		})
	}
	return out
}

func statusMessage(s Status) string {
	switch s {
	case StatusBadMethod:
		return "method not allowed"
	case StatusInvalidInput:
		return "invalid request"
	case StatusFetchFailed:
		return "could not fetch image"
	default:
		return "prediction failed"
	}
}
