package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/events"
)

// APIGateway adapts an API Gateway proxy event to the classification core,
// for deployments where the handler runs as a Lambda function behind a
// managed route instead of its own HTTP server.
func (h *Handler) APIGateway(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	outcome := h.Classify(ctx, req.HTTPMethod, req.QueryStringParameters["url"])

	body, err := json.Marshal(outcome.Body())
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"prediction failed"}`,
		}, nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: outcome.HTTPStatus(),
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
