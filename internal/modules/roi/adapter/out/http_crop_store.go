package out

import (
	"context"

	"roictl/internal/modules/roi/domain"
	roiout "roictl/internal/modules/roi/port/out"
	"roictl/internal/platform/httpapi"
)

const cropPath = "crop"

type HTTPCropStore struct {
	client *httpapi.Client
}

func NewHTTPCropStore(client *httpapi.Client) roiout.CropStore {
	return &HTTPCropStore{client: client}
}

func (s *HTTPCropStore) SaveCrop(ctx context.Context, crop domain.CropDefinition) error {
	return s.client.PostJSON(ctx, cropPath, crop, nil)
}
