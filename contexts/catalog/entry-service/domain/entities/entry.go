package entities

import "time"

// AssetKind partitions file assets for checksum dedup: a checksum must be
// unique within its kind, not across kinds.
type AssetKind string

const (
	AssetKindImage      AssetKind = "image"
	AssetKindAttachment AssetKind = "attachment"
)

// Entry is one catalogued audio patch recording with its metadata.
type Entry struct {
	EntryID           string
	Name              string
	Description       string
	RecordingFile     string
	RecordingChecksum string
	RecordedAt        time.Time
	LicenseID         string
	Tags              []Tag
	Authors           []Author
	Images            []FileAsset
	Attachments       []FileAsset
	RepoAttachments   []RepoAttachment
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Tag names are unique case-insensitively.
type Tag struct {
	TagID       string
	Name        string
	Description string
}

// Author is a display identity, possibly linked to a site user.
type Author struct {
	AuthorID    string
	DisplayName string
	UserID      string
	Links       []AuthorLink
}

type AuthorLink struct {
	Label string
	URL   string
}

// FileAsset references a stored file by path and md5 checksum. Asset storage
// itself lives outside this module; the catalog owns identity and dedup.
type FileAsset struct {
	AssetID   string
	Kind      AssetKind
	Path      string
	Checksum  string
	SizeBytes int64
	CreatedAt time.Time
}

// RepoAttachment pins a file in a source-code repository at a commit.
type RepoAttachment struct {
	RepoURL  string
	Commit   string
	Filename string
}

type License struct {
	LicenseID string
	Name      string
	URL       string
}

// DefaultLicenses returns the eight licenses the uploader protocol numbers
// entries against.
func DefaultLicenses() []License {
	return []License{
		{LicenseID: "1", Name: "All rights reserved"},
		{LicenseID: "2", Name: "CC Attribution-NonCommercial-NoDerivs 3.0 Unported", URL: "https://creativecommons.org/licenses/by-nc-nd/3.0/"},
		{LicenseID: "3", Name: "CC Attribution-NonCommercial-ShareAlike 3.0 Unported", URL: "https://creativecommons.org/licenses/by-nc-sa/3.0/"},
		{LicenseID: "4", Name: "CC Attribution-NoDerivs 3.0 Unported", URL: "https://creativecommons.org/licenses/by-nd/3.0/"},
		{LicenseID: "5", Name: "CC Attribution-NonCommercial 3.0 Unported", URL: "https://creativecommons.org/licenses/by-nc/3.0/"},
		{LicenseID: "6", Name: "CC Attribution-ShareAlike 3.0 Unported", URL: "https://creativecommons.org/licenses/by-sa/3.0/"},
		{LicenseID: "7", Name: "CC Attribution 3.0 Unported", URL: "https://creativecommons.org/licenses/by/3.0/"},
		{LicenseID: "8", Name: "Public Domain"},
	}
}
