package http

import "time"

// ErrorResponse is the uniform error body for the catalog API.
type ErrorResponse struct {
	Code    string `json:"code" example:"entry_not_found"`
	Message string `json:"message" example:"entry not found"`
}

type TagResponse struct {
	TagID       string `json:"tag_id" example:"9f0c2b7e-1d34-4a8e-9f21-0c1d2e3f4a5b"`
	Name        string `json:"name" example:"ambient"`
	Description string `json:"description,omitempty" example:"slow evolving textures"`
}

type TagListResponse struct {
	Items []TagResponse `json:"items"`
}

type CreateTagRequest struct {
	Name        string `json:"name" example:"ambient"`
	Description string `json:"description,omitempty"`
}

type AuthorLinkResponse struct {
	Label string `json:"label" example:"homepage"`
	URL   string `json:"url" example:"https://example.org"`
}

type AuthorResponse struct {
	AuthorID    string               `json:"author_id"`
	DisplayName string               `json:"display_name" example:"rlainson"`
	Links       []AuthorLinkResponse `json:"links,omitempty"`
}

type AuthorListResponse struct {
	Items []AuthorResponse `json:"items"`
}

type LicenseResponse struct {
	LicenseID string `json:"license_id" example:"7"`
	Name      string `json:"name" example:"CC Attribution 3.0 Unported"`
	URL       string `json:"url,omitempty"`
}

type LicenseListResponse struct {
	Items []LicenseResponse `json:"items"`
}

type AssetResponse struct {
	AssetID   string `json:"asset_id"`
	Kind      string `json:"kind" example:"image"`
	Path      string `json:"path" example:"images/patch-front.png"`
	Checksum  string `json:"checksum" example:"9e107d9d372bb6826bd81d3542a419d6"`
	SizeBytes int64  `json:"size_bytes" example:"48213"`
}

type AssetListResponse struct {
	Items []AssetResponse `json:"items"`
}

type RepoAttachmentResponse struct {
	RepoURL  string `json:"repo_url" example:"https://github.com/example/patches"`
	Commit   string `json:"commit" example:"2f7c1aa"`
	Filename string `json:"filename" example:"drone.pd"`
}

type EntryResponse struct {
	EntryID           string                   `json:"entry_id"`
	Name              string                   `json:"name" example:"evening drone"`
	Description       string                   `json:"description,omitempty"`
	RecordingFile     string                   `json:"recording_file" example:"evening-drone.flac"`
	RecordingChecksum string                   `json:"recording_checksum,omitempty"`
	RecordedAt        time.Time                `json:"recorded_at"`
	License           LicenseResponse          `json:"license"`
	Tags              []TagResponse            `json:"tags"`
	Authors           []AuthorResponse         `json:"authors"`
	Images            []AssetResponse          `json:"images"`
	Attachments       []AssetResponse          `json:"attachments"`
	RepoAttachments   []RepoAttachmentResponse `json:"repo_attachments"`
	CreatedAt         time.Time                `json:"created_at"`
}

type EntryListResponse struct {
	Items []EntryResponse `json:"items"`
}

// NewAssetRequest describes a fresh file to register alongside the entry.
type NewAssetRequest struct {
	Path      string `json:"path" example:"images/patch-front.png"`
	Checksum  string `json:"checksum" example:"9e107d9d372bb6826bd81d3542a419d6"`
	SizeBytes int64  `json:"size_bytes" example:"48213"`
}

type RepoAttachmentRequest struct {
	RepoURL  string `json:"repo_url"`
	Commit   string `json:"commit"`
	Filename string `json:"filename"`
}

// CreateEntryRequest mirrors the uploader manifest. Tags and authors are
// names; image/attachment checksums reference already-stored assets while
// new_images/new_attachments register fresh ones. write=false performs a
// dry run.
type CreateEntryRequest struct {
	Name              string                  `json:"name" example:"evening drone"`
	Description       string                  `json:"description,omitempty"`
	RecordingFile     string                  `json:"recording_file" example:"evening-drone.flac"`
	RecordingChecksum string                  `json:"recording_checksum,omitempty"`
	RecordedAt        time.Time               `json:"recorded_at"`
	LicenseID         string                  `json:"license_id" example:"7"`
	Tags              []string                `json:"tags,omitempty"`
	Authors           []string                `json:"authors,omitempty"`
	ImageChecksums    []string                `json:"image_checksums,omitempty"`
	NewImages         []NewAssetRequest       `json:"new_images,omitempty"`
	AttachChecksums   []string                `json:"attachment_checksums,omitempty"`
	NewAttachments    []NewAssetRequest       `json:"new_attachments,omitempty"`
	Repos             []RepoAttachmentRequest `json:"repos,omitempty"`
	CreateMissingTags bool                    `json:"create_missing_tags,omitempty"`
	Write             bool                    `json:"write"`
}
