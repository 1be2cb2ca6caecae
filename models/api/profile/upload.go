package profileapimodels

import (
	"blytzwork-backend/models"
	apimodels "blytzwork-backend/models/api"

	"github.com/pkg/errors"
)

type UploadURLRequest struct {
	Kind        models.FileKind `json:"kind" validate:"required"`
	FileName    string          `json:"file_name" validate:"required,max=255"`
	ContentType string          `json:"content_type" validate:"required,max=100"`
}

func (r UploadURLRequest) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.Kind.IsValid() {
		return errors.Errorf("unknown file kind %q", r.Kind)
	}
	if !r.Kind.AllowsContentType(r.ContentType) {
		return errors.Errorf("content type %q is not allowed for %v", r.ContentType, r.Kind)
	}
	return nil
}

type UploadURLResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

type DownloadURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
