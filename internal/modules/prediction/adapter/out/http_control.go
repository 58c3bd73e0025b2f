package out

import (
	"context"
	"fmt"

	"roictl/internal/modules/prediction/domain"
	predout "roictl/internal/modules/prediction/port/out"
	apperrors "roictl/internal/platform/errors"
	"roictl/internal/platform/httpapi"
)

const (
	inferencePath = "continuous-inference"
	inferNowPath  = "inference-now"
	filterPath    = "filter"
)

type statusBody struct {
	Status string `json:"status"`
}

type filterBody struct {
	FilterValue int `json:"filter_value"`
}

// inferNowBody is either a classification or {"Error": ...} when the
// continuous loop already owns the model.
type inferNowBody struct {
	Label      *string  `json:"classification"`
	Confidence *float64 `json:"confidence-score"`
	Error      string   `json:"Error"`
}

type HTTPControl struct {
	client *httpapi.Client
}

func NewHTTPControl(client *httpapi.Client) predout.Control {
	return &HTTPControl{client: client}
}

func (c *HTTPControl) StartInference(ctx context.Context) error {
	return c.client.PostJSON(ctx, inferencePath, statusBody{Status: "start"}, nil)
}

func (c *HTTPControl) StopInference(ctx context.Context) error {
	return c.client.PostJSON(ctx, inferencePath, statusBody{Status: "stop"}, nil)
}

func (c *HTTPControl) SetFilter(ctx context.Context, value int) error {
	return c.client.PostJSON(ctx, filterPath, filterBody{FilterValue: value}, nil)
}

func (c *HTTPControl) InferNow(ctx context.Context) (domain.Classification, error) {
	body := inferNowBody{}
	if err := c.client.GetJSON(ctx, inferNowPath, &body); err != nil {
		return domain.Classification{}, err
	}
	if body.Error != "" {
		return domain.Classification{}, &apperrors.BackendError{Path: inferNowPath, Status: 200, Detail: body.Error}
	}
	if body.Label == nil || body.Confidence == nil {
		return domain.Classification{}, fmt.Errorf("%s: %w", inferNowPath, domain.ErrMalformedClassification)
	}
	return domain.Classification{Label: *body.Label, Confidence: *body.Confidence}, nil
}
