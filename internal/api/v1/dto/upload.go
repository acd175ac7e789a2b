package dto

import (
	"time"
)

// UploadCredentialRequest asks for a deferred-upload credential.
type UploadCredentialRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required,gt=0"`
}

// UploadCredentialResponse carries a short-lived presigned PUT credential.
type UploadCredentialResponse struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}
