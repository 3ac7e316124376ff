package queries

import (
	"context"
	"strings"

	"patchbay/contexts/catalog/entry-service/domain/entities"
	"patchbay/contexts/catalog/entry-service/ports"
)

// DefaultFeedLimit bounds the recent-entries feed.
const DefaultFeedLimit = 20

// CatalogUseCase serves catalog reads: listings, detail, lookups, feed.
type CatalogUseCase struct {
	Entries  ports.EntryRepository
	Tags     ports.TagRepository
	Authors  ports.AuthorRepository
	Licenses ports.LicenseRepository
	Assets   ports.AssetRepository
}

// ListEntries returns entries newest-first, optionally filtered by name,
// recording filename, or owned-asset checksum.
func (uc CatalogUseCase) ListEntries(ctx context.Context, filter ports.EntryFilter) ([]entities.Entry, error) {
	return uc.Entries.ListEntries(ctx, filter)
}

func (uc CatalogUseCase) GetEntry(ctx context.Context, entryID string) (entities.Entry, error) {
	return uc.Entries.GetEntry(ctx, strings.TrimSpace(entryID))
}

func (uc CatalogUseCase) ListTags(ctx context.Context, names []string) ([]entities.Tag, error) {
	return uc.Tags.ListTags(ctx, names)
}

func (uc CatalogUseCase) ListAuthors(ctx context.Context) ([]entities.Author, error) {
	return uc.Authors.ListAuthors(ctx)
}

func (uc CatalogUseCase) ListLicenses(ctx context.Context) ([]entities.License, error) {
	return uc.Licenses.ListLicenses(ctx)
}

func (uc CatalogUseCase) FindAssets(
	ctx context.Context,
	kind entities.AssetKind,
	checksums []string,
) ([]entities.FileAsset, error) {
	return uc.Assets.FindAssetsByChecksum(ctx, kind, checksums)
}

// RecentFeed returns the newest entries for the RSS rendering in the http
// adapter.
func (uc CatalogUseCase) RecentFeed(ctx context.Context, limit int) ([]entities.Entry, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return uc.Entries.ListEntries(ctx, ports.EntryFilter{Limit: limit})
}
