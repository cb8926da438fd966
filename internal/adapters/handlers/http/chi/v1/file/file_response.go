package file

import (
	"fileshare/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// V1FileResponse is the metadata of a published file
type V1FileResponse struct {
	FileID          uuid.UUID              `json:"file_id"`
	Filename        string                 `json:"filename"`
	SizeBytes       int64                  `json:"size_bytes"`
	Checksum        string                 `json:"checksum_sha256"`
	IsPublic        bool                   `json:"is_public"`
	ContentCategory domain.ContentCategory `json:"content_category"`
	ContentType     string                 `json:"content_type"`
	DownloadCount   int64                  `json:"download_count"`
	CreatedAt       time.Time              `json:"created_at"`
	ExpiresAt       *time.Time             `json:"expires_at"`
	DownloadURL     string                 `json:"download_url"`
	PreviewURL      string                 `json:"preview_url"`
}

const filesPath = "/api/v1/files/"

func toFileResponse(record domain.FileRecord) V1FileResponse {
	id := record.ID.String()
	return V1FileResponse{
		FileID:          record.ID,
		Filename:        record.Filename,
		SizeBytes:       record.SizeBytes,
		Checksum:        record.Checksum,
		IsPublic:        record.IsPublic,
		ContentCategory: record.Category,
		ContentType:     record.ContentType,
		DownloadCount:   record.DownloadCount,
		CreatedAt:       record.CreatedAt,
		ExpiresAt:       record.ExpiresAt,
		DownloadURL:     filesPath + id + "/download",
		PreviewURL:      filesPath + id + "/preview",
	}
}
