package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"patchbay/contexts/catalog/entry-service/application/commands"
	"patchbay/contexts/catalog/entry-service/application/queries"
	"patchbay/contexts/catalog/entry-service/domain/entities"
	"patchbay/contexts/catalog/entry-service/ports"
	httptransport "patchbay/contexts/catalog/entry-service/transport/http"
)

// Handler adapts transport DTOs to catalog use cases.
type Handler struct {
	Writes  commands.EntryUseCase
	Catalog queries.CatalogUseCase
	Logger  *slog.Logger
}

func (h Handler) CreateEntryHandler(
	ctx context.Context,
	req httptransport.CreateEntryRequest,
) (httptransport.EntryResponse, error) {
	entry, err := h.Writes.CreateEntry(ctx, commands.CreateEntryCommand{
		Name:              req.Name,
		Description:       req.Description,
		RecordingFile:     req.RecordingFile,
		RecordingChecksum: req.RecordingChecksum,
		RecordedAt:        req.RecordedAt,
		LicenseID:         req.LicenseID,
		Tags:              req.Tags,
		Authors:           req.Authors,
		ImageChecksums:    req.ImageChecksums,
		NewImages:         mapNewAssets(req.NewImages),
		AttachChecksums:   req.AttachChecksums,
		NewAttachments:    mapNewAssets(req.NewAttachments),
		Repos:             mapRepoRequests(req.Repos),
		CreateMissingTags: req.CreateMissingTags,
		Write:             req.Write,
	})
	if err != nil {
		return httptransport.EntryResponse{}, err
	}
	return h.mapEntry(ctx, entry)
}

func (h Handler) GetEntryHandler(ctx context.Context, entryID string) (httptransport.EntryResponse, error) {
	entry, err := h.Catalog.GetEntry(ctx, entryID)
	if err != nil {
		return httptransport.EntryResponse{}, err
	}
	return h.mapEntry(ctx, entry)
}

func (h Handler) ListEntriesHandler(
	ctx context.Context,
	filter ports.EntryFilter,
) (httptransport.EntryListResponse, error) {
	items, err := h.Catalog.ListEntries(ctx, filter)
	if err != nil {
		return httptransport.EntryListResponse{}, err
	}
	licenses, err := h.licensesByID(ctx)
	if err != nil {
		return httptransport.EntryListResponse{}, err
	}
	resp := httptransport.EntryListResponse{
		Items: make([]httptransport.EntryResponse, 0, len(items)),
	}
	for _, entry := range items {
		resp.Items = append(resp.Items, mapEntryWith(entry, licenses))
	}
	return resp, nil
}

func (h Handler) CreateTagHandler(
	ctx context.Context,
	req httptransport.CreateTagRequest,
) (httptransport.TagResponse, error) {
	tag, err := h.Writes.CreateTag(ctx, commands.CreateTagCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.TagResponse{}, err
	}
	return mapTag(tag), nil
}

func (h Handler) ListTagsHandler(ctx context.Context, names []string) (httptransport.TagListResponse, error) {
	items, err := h.Catalog.ListTags(ctx, names)
	if err != nil {
		return httptransport.TagListResponse{}, err
	}
	resp := httptransport.TagListResponse{Items: make([]httptransport.TagResponse, 0, len(items))}
	for _, tag := range items {
		resp.Items = append(resp.Items, mapTag(tag))
	}
	return resp, nil
}

func (h Handler) ListAuthorsHandler(ctx context.Context) (httptransport.AuthorListResponse, error) {
	items, err := h.Catalog.ListAuthors(ctx)
	if err != nil {
		return httptransport.AuthorListResponse{}, err
	}
	resp := httptransport.AuthorListResponse{Items: make([]httptransport.AuthorResponse, 0, len(items))}
	for _, author := range items {
		resp.Items = append(resp.Items, mapAuthor(author))
	}
	return resp, nil
}

func (h Handler) ListLicensesHandler(ctx context.Context) (httptransport.LicenseListResponse, error) {
	items, err := h.Catalog.ListLicenses(ctx)
	if err != nil {
		return httptransport.LicenseListResponse{}, err
	}
	resp := httptransport.LicenseListResponse{Items: make([]httptransport.LicenseResponse, 0, len(items))}
	for _, license := range items {
		resp.Items = append(resp.Items, mapLicense(license))
	}
	return resp, nil
}

// FindAssetsHandler backs the uploader's dedup queries on /api/images and
// /api/attachments.
func (h Handler) FindAssetsHandler(
	ctx context.Context,
	kind entities.AssetKind,
	checksums []string,
) (httptransport.AssetListResponse, error) {
	items, err := h.Catalog.FindAssets(ctx, kind, checksums)
	if err != nil {
		return httptransport.AssetListResponse{}, err
	}
	resp := httptransport.AssetListResponse{Items: make([]httptransport.AssetResponse, 0, len(items))}
	for _, asset := range items {
		resp.Items = append(resp.Items, mapAsset(asset))
	}
	return resp, nil
}

func (h Handler) FeedHandler(
	ctx context.Context,
	baseURL string,
	now time.Time,
) (httptransport.RSSFeed, error) {
	entries, err := h.Catalog.RecentFeed(ctx, queries.DefaultFeedLimit)
	if err != nil {
		return httptransport.RSSFeed{}, err
	}
	items := make([]httptransport.FeedItemInput, 0, len(entries))
	for _, entry := range entries {
		tags := make([]string, 0, len(entry.Tags))
		for _, tag := range entry.Tags {
			tags = append(tags, tag.Name)
		}
		items = append(items, httptransport.FeedItemInput{
			EntryID:     entry.EntryID,
			Title:       entry.Name,
			Description: entry.Description,
			RecordedAt:  entry.RecordedAt,
			Tags:        tags,
		})
	}
	return httptransport.BuildFeed(baseURL, now, items), nil
}

func (h Handler) mapEntry(ctx context.Context, entry entities.Entry) (httptransport.EntryResponse, error) {
	licenses, err := h.licensesByID(ctx)
	if err != nil {
		return httptransport.EntryResponse{}, err
	}
	return mapEntryWith(entry, licenses), nil
}

func (h Handler) licensesByID(ctx context.Context) (map[string]entities.License, error) {
	items, err := h.Catalog.ListLicenses(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entities.License, len(items))
	for _, license := range items {
		byID[license.LicenseID] = license
	}
	return byID, nil
}

func mapEntryWith(entry entities.Entry, licenses map[string]entities.License) httptransport.EntryResponse {
	resp := httptransport.EntryResponse{
		EntryID:           entry.EntryID,
		Name:              entry.Name,
		Description:       entry.Description,
		RecordingFile:     entry.RecordingFile,
		RecordingChecksum: entry.RecordingChecksum,
		RecordedAt:        entry.RecordedAt,
		License:           mapLicense(licenses[entry.LicenseID]),
		Tags:              make([]httptransport.TagResponse, 0, len(entry.Tags)),
		Authors:           make([]httptransport.AuthorResponse, 0, len(entry.Authors)),
		Images:            make([]httptransport.AssetResponse, 0, len(entry.Images)),
		Attachments:       make([]httptransport.AssetResponse, 0, len(entry.Attachments)),
		RepoAttachments:   make([]httptransport.RepoAttachmentResponse, 0, len(entry.RepoAttachments)),
		CreatedAt:         entry.CreatedAt,
	}
	if resp.License.LicenseID == "" {
		resp.License.LicenseID = entry.LicenseID
	}
	for _, tag := range entry.Tags {
		resp.Tags = append(resp.Tags, mapTag(tag))
	}
	for _, author := range entry.Authors {
		resp.Authors = append(resp.Authors, mapAuthor(author))
	}
	for _, asset := range entry.Images {
		resp.Images = append(resp.Images, mapAsset(asset))
	}
	for _, asset := range entry.Attachments {
		resp.Attachments = append(resp.Attachments, mapAsset(asset))
	}
	for _, repo := range entry.RepoAttachments {
		resp.RepoAttachments = append(resp.RepoAttachments, httptransport.RepoAttachmentResponse{
			RepoURL:  repo.RepoURL,
			Commit:   repo.Commit,
			Filename: repo.Filename,
		})
	}
	return resp
}

func mapTag(tag entities.Tag) httptransport.TagResponse {
	return httptransport.TagResponse{
		TagID:       tag.TagID,
		Name:        tag.Name,
		Description: tag.Description,
	}
}

func mapAuthor(author entities.Author) httptransport.AuthorResponse {
	resp := httptransport.AuthorResponse{
		AuthorID:    author.AuthorID,
		DisplayName: author.DisplayName,
		Links:       make([]httptransport.AuthorLinkResponse, 0, len(author.Links)),
	}
	for _, link := range author.Links {
		resp.Links = append(resp.Links, httptransport.AuthorLinkResponse{Label: link.Label, URL: link.URL})
	}
	return resp
}

func mapLicense(license entities.License) httptransport.LicenseResponse {
	return httptransport.LicenseResponse{
		LicenseID: license.LicenseID,
		Name:      license.Name,
		URL:       license.URL,
	}
}

func mapAsset(asset entities.FileAsset) httptransport.AssetResponse {
	return httptransport.AssetResponse{
		AssetID:   asset.AssetID,
		Kind:      string(asset.Kind),
		Path:      asset.Path,
		Checksum:  asset.Checksum,
		SizeBytes: asset.SizeBytes,
	}
}

func mapNewAssets(inputs []httptransport.NewAssetRequest) []commands.NewAssetInput {
	out := make([]commands.NewAssetInput, 0, len(inputs))
	for _, input := range inputs {
		out = append(out, commands.NewAssetInput{
			Path:      input.Path,
			Checksum:  input.Checksum,
			SizeBytes: input.SizeBytes,
		})
	}
	return out
}

func mapRepoRequests(inputs []httptransport.RepoAttachmentRequest) []commands.RepoAttachmentInput {
	out := make([]commands.RepoAttachmentInput, 0, len(inputs))
	for _, input := range inputs {
		out = append(out, commands.RepoAttachmentInput{
			RepoURL:  input.RepoURL,
			Commit:   input.Commit,
			Filename: input.Filename,
		})
	}
	return out
}
