package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"patchbay/contexts/catalog/entry-service/domain/entities"
	domainerrors "patchbay/contexts/catalog/entry-service/domain/errors"
	"patchbay/contexts/catalog/entry-service/ports"

	"github.com/google/uuid"
)

// Store implements every catalog port in memory for tests and local wiring.
type Store struct {
	mu sync.RWMutex

	entries  map[string]entities.Entry
	tags     map[string]entities.Tag
	authors  map[string]entities.Author
	licenses map[string]entities.License
	assets   map[string]entities.FileAsset
}

func NewStore() *Store {
	licenses := make(map[string]entities.License)
	for _, license := range entities.DefaultLicenses() {
		licenses[license.LicenseID] = license
	}
	return &Store{
		entries:  make(map[string]entities.Entry),
		tags:     make(map[string]entities.Tag),
		authors:  make(map[string]entities.Author),
		licenses: licenses,
		assets:   make(map[string]entities.FileAsset),
	}
}

// SetAuthor seeds an author identity.
func (s *Store) SetAuthor(author entities.Author) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors[author.AuthorID] = author
}

// SetAsset seeds a stored file asset.
func (s *Store) SetAsset(asset entities.FileAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[asset.AssetID] = asset
}

func (s *Store) CreateEntry(_ context.Context, entry entities.Entry, newAssets []entities.FileAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, asset := range newAssets {
		s.assets[asset.AssetID] = asset
	}
	s.entries[entry.EntryID] = entry
	return nil
}

func (s *Store) GetEntry(_ context.Context, entryID string) (entities.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[strings.TrimSpace(entryID)]
	if !ok {
		return entities.Entry{}, domainerrors.ErrEntryNotFound
	}
	return entry, nil
}

func (s *Store) ListEntries(_ context.Context, filter ports.EntryFilter) ([]entities.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if matchesFilter(entry, filter) {
			items = append(items, entry)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].RecordedAt.Equal(items[j].RecordedAt) {
			return items[i].EntryID < items[j].EntryID
		}
		return items[i].RecordedAt.After(items[j].RecordedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return []entities.Entry{}, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) CreateTag(_ context.Context, tag entities.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tags {
		if strings.EqualFold(existing.Name, tag.Name) {
			return domainerrors.ErrTagExists
		}
	}
	s.tags[tag.TagID] = tag
	return nil
}

func (s *Store) GetTagByName(_ context.Context, name string) (entities.Tag, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tag := range s.tags {
		if strings.EqualFold(tag.Name, strings.TrimSpace(name)) {
			return tag, true, nil
		}
	}
	return entities.Tag{}, false, nil
}

func (s *Store) ListTags(_ context.Context, names []string) ([]entities.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		if len(names) > 0 && !containsFold(names, tag.Name) {
			continue
		}
		items = append(items, tag)
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

func (s *Store) GetAuthorByName(_ context.Context, displayName string) (entities.Author, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, author := range s.authors {
		if strings.EqualFold(author.DisplayName, strings.TrimSpace(displayName)) {
			return author, true, nil
		}
	}
	return entities.Author{}, false, nil
}

func (s *Store) ListAuthors(_ context.Context) ([]entities.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Author, 0, len(s.authors))
	for _, author := range s.authors {
		items = append(items, author)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DisplayName < items[j].DisplayName
	})
	return items, nil
}

func (s *Store) GetLicense(_ context.Context, licenseID string) (entities.License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	license, ok := s.licenses[strings.TrimSpace(licenseID)]
	if !ok {
		return entities.License{}, domainerrors.ErrLicenseNotFound
	}
	return license, nil
}

func (s *Store) ListLicenses(_ context.Context) ([]entities.License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.License, 0, len(s.licenses))
	for _, license := range s.licenses {
		items = append(items, license)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].LicenseID < items[j].LicenseID
	})
	return items, nil
}

func (s *Store) FindAssetsByChecksum(
	_ context.Context,
	kind entities.AssetKind,
	checksums []string,
) ([]entities.FileAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.FileAsset, 0)
	for _, asset := range s.assets {
		if asset.Kind != kind {
			continue
		}
		for _, checksum := range checksums {
			if asset.Checksum == strings.TrimSpace(checksum) {
				items = append(items, asset)
				break
			}
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Checksum < items[j].Checksum
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func matchesFilter(entry entities.Entry, filter ports.EntryFilter) bool {
	if len(filter.Names) > 0 && !containsFold(filter.Names, entry.Name) {
		return false
	}
	if len(filter.Filenames) > 0 && !containsFold(filter.Filenames, entry.RecordingFile) {
		return false
	}
	if len(filter.Checksums) > 0 {
		owned := make([]string, 0, len(entry.Images)+len(entry.Attachments)+1)
		owned = append(owned, entry.RecordingChecksum)
		for _, asset := range entry.Images {
			owned = append(owned, asset.Checksum)
		}
		for _, asset := range entry.Attachments {
			owned = append(owned, asset.Checksum)
		}
		matched := false
		for _, checksum := range filter.Checksums {
			for _, candidate := range owned {
				if candidate != "" && candidate == strings.TrimSpace(checksum) {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}
