package ports

import (
	"context"
	"time"

	"patchbay/contexts/catalog/entry-service/domain/entities"
)

// EntryFilter narrows entry listings. All filters match exactly; checksum
// filters match any asset the entry owns, including its recording.
type EntryFilter struct {
	Names     []string
	Filenames []string
	Checksums []string
	Limit     int
	Offset    int
}

// EntryRepository persists entries with their associations.
//
// CreateEntry writes the entry, its join rows, its repo attachments and any
// new file assets in one transaction.
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry entities.Entry, newAssets []entities.FileAsset) error
	GetEntry(ctx context.Context, entryID string) (entities.Entry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]entities.Entry, error)
}

type TagRepository interface {
	CreateTag(ctx context.Context, tag entities.Tag) error
	GetTagByName(ctx context.Context, name string) (entities.Tag, bool, error)
	ListTags(ctx context.Context, names []string) ([]entities.Tag, error)
}

type AuthorRepository interface {
	GetAuthorByName(ctx context.Context, displayName string) (entities.Author, bool, error)
	ListAuthors(ctx context.Context) ([]entities.Author, error)
}

type LicenseRepository interface {
	GetLicense(ctx context.Context, licenseID string) (entities.License, error)
	ListLicenses(ctx context.Context) ([]entities.License, error)
}

// AssetRepository answers checksum lookups, the uploader's dedup primitive.
type AssetRepository interface {
	FindAssetsByChecksum(ctx context.Context, kind entities.AssetKind, checksums []string) ([]entities.FileAsset, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
