package out

import (
	"context"
	"io"

	predout "roictl/internal/modules/prediction/port/out"
	"roictl/internal/platform/httpapi"
)

const (
	uploadModelPath = "upload-model"
	checkModelPath  = "check-model-loaded"
	modelFileField  = "file"
)

type loadedModelBody struct {
	File string `json:"Arquivo"`
}

type HTTPModelStore struct {
	client *httpapi.Client
}

func NewHTTPModelStore(client *httpapi.Client) predout.ModelStore {
	return &HTTPModelStore{client: client}
}

func (s *HTTPModelStore) Upload(ctx context.Context, name string, content io.Reader) error {
	return s.client.PostFile(ctx, uploadModelPath, modelFileField, name, content, nil)
}

func (s *HTTPModelStore) LoadedModel(ctx context.Context) (string, error) {
	body := loadedModelBody{}
	if err := s.client.GetJSON(ctx, checkModelPath, &body); err != nil {
		return "", err
	}
	return body.File, nil
}
