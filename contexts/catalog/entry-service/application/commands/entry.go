package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "patchbay/contexts/catalog/entry-service/application"
	"patchbay/contexts/catalog/entry-service/domain/entities"
	domainerrors "patchbay/contexts/catalog/entry-service/domain/errors"
	"patchbay/contexts/catalog/entry-service/ports"
)

// NewAssetInput describes a file the caller wants stored as a fresh asset.
type NewAssetInput struct {
	Path      string
	Checksum  string
	SizeBytes int64
}

type RepoAttachmentInput struct {
	RepoURL  string
	Commit   string
	Filename string
}

// CreateEntryCommand is the write-model input for entry creation. Tags and
// authors are referenced by name; files either by checksum (already-known
// assets) or as NewAssetInput (fresh uploads). Write=false validates and
// resolves everything without persisting, which is how uploader dry runs
// work.
type CreateEntryCommand struct {
	Name              string
	Description       string
	RecordingFile     string
	RecordingChecksum string
	RecordedAt        time.Time
	LicenseID         string
	Tags              []string
	Authors           []string
	ImageChecksums    []string
	NewImages         []NewAssetInput
	AttachChecksums   []string
	NewAttachments    []NewAssetInput
	Repos             []RepoAttachmentInput
	CreateMissingTags bool
	Write             bool
}

type CreateTagCommand struct {
	Name        string
	Description string
}

// EntryUseCase orchestrates catalog writes.
type EntryUseCase struct {
	Entries  ports.EntryRepository
	Tags     ports.TagRepository
	Authors  ports.AuthorRepository
	Licenses ports.LicenseRepository
	Assets   ports.AssetRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// CreateEntry resolves every reference, rejects checksum conflicts, and
// persists the entry with its associations in one repository transaction.
func (uc EntryUseCase) CreateEntry(ctx context.Context, cmd CreateEntryCommand) (entities.Entry, error) {
	logger := application.ResolveLogger(uc.Logger)

	name := strings.TrimSpace(cmd.Name)
	if name == "" || strings.TrimSpace(cmd.RecordingFile) == "" {
		return entities.Entry{}, domainerrors.ErrInvalidEntryInput
	}

	license, err := uc.Licenses.GetLicense(ctx, strings.TrimSpace(cmd.LicenseID))
	if err != nil {
		return entities.Entry{}, err
	}

	now := uc.now()
	tags, createdTags, err := uc.resolveTags(ctx, cmd.Tags, cmd.CreateMissingTags)
	if err != nil {
		return entities.Entry{}, err
	}
	authors, err := uc.resolveAuthors(ctx, cmd.Authors)
	if err != nil {
		return entities.Entry{}, err
	}

	images, newImages, err := uc.resolveAssets(ctx, entities.AssetKindImage, cmd.ImageChecksums, cmd.NewImages, now)
	if err != nil {
		return entities.Entry{}, err
	}
	attachments, newAttachments, err := uc.resolveAssets(ctx, entities.AssetKindAttachment, cmd.AttachChecksums, cmd.NewAttachments, now)
	if err != nil {
		return entities.Entry{}, err
	}

	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Entry{}, err
	}
	entry := entities.Entry{
		EntryID:           entryID,
		Name:              name,
		Description:       strings.TrimSpace(cmd.Description),
		RecordingFile:     strings.TrimSpace(cmd.RecordingFile),
		RecordingChecksum: strings.TrimSpace(cmd.RecordingChecksum),
		RecordedAt:        cmd.RecordedAt.UTC(),
		LicenseID:         license.LicenseID,
		Tags:              tags,
		Authors:           authors,
		Images:            images,
		Attachments:       attachments,
		RepoAttachments:   mapRepos(cmd.Repos),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if !cmd.Write {
		logger.Info("entry dry run validated",
			"event", "catalog_entry_dry_run",
			"module", "catalog/entry-service",
			"layer", "application",
			"name", name,
		)
		return entry, nil
	}

	for _, tag := range createdTags {
		if err := uc.Tags.CreateTag(ctx, tag); err != nil {
			return entities.Entry{}, err
		}
	}
	newAssets := append(append([]entities.FileAsset(nil), newImages...), newAttachments...)
	if err := uc.Entries.CreateEntry(ctx, entry, newAssets); err != nil {
		logger.Error("entry create failed",
			"event", "catalog_entry_create_failed",
			"module", "catalog/entry-service",
			"layer", "application",
			"name", name,
			"error", err.Error(),
		)
		return entities.Entry{}, err
	}

	logger.Info("entry created",
		"event", "catalog_entry_created",
		"module", "catalog/entry-service",
		"layer", "application",
		"entry_id", entry.EntryID,
		"name", name,
		"tag_count", len(tags),
		"author_count", len(authors),
	)
	return entry, nil
}

// CreateTag registers a tag; names are unique case-insensitively.
func (uc EntryUseCase) CreateTag(ctx context.Context, cmd CreateTagCommand) (entities.Tag, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return entities.Tag{}, domainerrors.ErrInvalidEntryInput
	}
	if _, found, err := uc.Tags.GetTagByName(ctx, name); err != nil {
		return entities.Tag{}, err
	} else if found {
		return entities.Tag{}, domainerrors.ErrTagExists
	}

	tagID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Tag{}, err
	}
	tag := entities.Tag{
		TagID:       tagID,
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
	}
	if err := uc.Tags.CreateTag(ctx, tag); err != nil {
		return entities.Tag{}, err
	}
	return tag, nil
}

func (uc EntryUseCase) resolveTags(
	ctx context.Context,
	names []string,
	createMissing bool,
) ([]entities.Tag, []entities.Tag, error) {
	tags := make([]entities.Tag, 0, len(names))
	created := make([]entities.Tag, 0)
	missing := make([]string, 0)
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		tag, found, err := uc.Tags.GetTagByName(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		if found {
			tags = append(tags, tag)
			continue
		}
		if !createMissing {
			missing = append(missing, name)
			continue
		}
		tagID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return nil, nil, err
		}
		tag = entities.Tag{TagID: tagID, Name: name}
		created = append(created, tag)
		tags = append(tags, tag)
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", domainerrors.ErrTagNotFound, strings.Join(missing, ", "))
	}
	return tags, created, nil
}

func (uc EntryUseCase) resolveAuthors(ctx context.Context, names []string) ([]entities.Author, error) {
	authors := make([]entities.Author, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		author, found, err := uc.Authors.GetAuthorByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", domainerrors.ErrAuthorNotFound, name)
		}
		authors = append(authors, author)
	}
	return authors, nil
}

// resolveAssets splits an entry's files into already-known assets referenced
// by checksum and fresh assets to persist. A fresh asset whose checksum is
// already stored under the same kind is a conflict, mirroring the
// checksum-dedup contract of the upload API.
func (uc EntryUseCase) resolveAssets(
	ctx context.Context,
	kind entities.AssetKind,
	checksums []string,
	fresh []NewAssetInput,
	now time.Time,
) ([]entities.FileAsset, []entities.FileAsset, error) {
	known := make([]entities.FileAsset, 0, len(checksums))
	if len(checksums) > 0 {
		found, err := uc.Assets.FindAssetsByChecksum(ctx, kind, checksums)
		if err != nil {
			return nil, nil, err
		}
		byChecksum := make(map[string]entities.FileAsset, len(found))
		for _, asset := range found {
			byChecksum[asset.Checksum] = asset
		}
		for _, checksum := range checksums {
			asset, ok := byChecksum[strings.TrimSpace(checksum)]
			if !ok {
				return nil, nil, fmt.Errorf("%w: unknown %s checksum %s",
					domainerrors.ErrInvalidEntryInput, kind, strings.TrimSpace(checksum))
			}
			known = append(known, asset)
		}
	}

	newAssets := make([]entities.FileAsset, 0, len(fresh))
	if len(fresh) > 0 {
		freshChecksums := make([]string, 0, len(fresh))
		for _, input := range fresh {
			freshChecksums = append(freshChecksums, strings.TrimSpace(input.Checksum))
		}
		conflicts, err := uc.Assets.FindAssetsByChecksum(ctx, kind, freshChecksums)
		if err != nil {
			return nil, nil, err
		}
		if len(conflicts) > 0 {
			paths := make([]string, 0, len(conflicts))
			for _, asset := range conflicts {
				paths = append(paths, asset.Path)
			}
			return nil, nil, fmt.Errorf("%w: %s", domainerrors.ErrDuplicateAsset, strings.Join(paths, ", "))
		}
		for _, input := range fresh {
			assetID, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return nil, nil, err
			}
			newAssets = append(newAssets, entities.FileAsset{
				AssetID:   assetID,
				Kind:      kind,
				Path:      strings.TrimSpace(input.Path),
				Checksum:  strings.TrimSpace(input.Checksum),
				SizeBytes: input.SizeBytes,
				CreatedAt: now,
			})
		}
	}
	return append(known, newAssets...), newAssets, nil
}

func (uc EntryUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func mapRepos(inputs []RepoAttachmentInput) []entities.RepoAttachment {
	repos := make([]entities.RepoAttachment, 0, len(inputs))
	for _, input := range inputs {
		repos = append(repos, entities.RepoAttachment{
			RepoURL:  strings.TrimSpace(input.RepoURL),
			Commit:   strings.TrimSpace(input.Commit),
			Filename: strings.TrimSpace(input.Filename),
		})
	}
	return repos
}
