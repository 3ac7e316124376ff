package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"patchbay/contexts/catalog/entry-service/domain/entities"
	domainerrors "patchbay/contexts/catalog/entry-service/domain/errors"
	"patchbay/contexts/catalog/entry-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the catalog: entries, tags, authors, licenses, assets.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// EnsureDefaultLicenses upserts the fixed license table at startup.
func (r *Repository) EnsureDefaultLicenses(ctx context.Context) error {
	for _, license := range entities.DefaultLicenses() {
		row := licenseModel{
			ID:   license.LicenseID,
			Name: license.Name,
			URL:  license.URL,
		}
		if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return r.logError("catalog_repo_seed_licenses_failed", err, "license_id", license.LicenseID)
		}
	}
	return nil
}

func (r *Repository) CreateEntry(ctx context.Context, entry entities.Entry, newAssets []entities.FileAsset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, asset := range newAssets {
			row := assetModelFromEntity(asset)
			if err := tx.Create(&row).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrDuplicateAsset
				}
				return err
			}
		}

		row := entryModelFromEntity(entry)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for _, tag := range entry.Tags {
			if err := tx.Create(&entryTagModel{EntryID: entry.EntryID, TagID: tag.TagID}).Error; err != nil {
				return err
			}
		}
		for _, author := range entry.Authors {
			if err := tx.Create(&entryAuthorModel{EntryID: entry.EntryID, AuthorID: author.AuthorID}).Error; err != nil {
				return err
			}
		}
		for _, asset := range entry.Images {
			if err := tx.Create(&entryAssetModel{EntryID: entry.EntryID, AssetID: asset.AssetID}).Error; err != nil {
				return err
			}
		}
		for _, asset := range entry.Attachments {
			if err := tx.Create(&entryAssetModel{EntryID: entry.EntryID, AssetID: asset.AssetID}).Error; err != nil {
				return err
			}
		}
		for _, repo := range entry.RepoAttachments {
			if err := tx.Create(&repoAttachmentModel{
				EntryID:  entry.EntryID,
				RepoURL:  repo.RepoURL,
				Commit:   repo.Commit,
				Filename: repo.Filename,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateAsset) {
			return err
		}
		return r.logError("catalog_repo_create_entry_failed", err,
			"entry_id", entry.EntryID,
			"name", entry.Name,
		)
	}
	return nil
}

func (r *Repository) GetEntry(ctx context.Context, entryID string) (entities.Entry, error) {
	var row entryModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(entryID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Entry{}, domainerrors.ErrEntryNotFound
		}
		return entities.Entry{}, r.logError("catalog_repo_get_entry_failed", err,
			"entry_id", strings.TrimSpace(entryID),
		)
	}
	entry, err := r.loadAssociations(ctx, row)
	if err != nil {
		return entities.Entry{}, err
	}
	return entry, nil
}

func (r *Repository) ListEntries(ctx context.Context, filter ports.EntryFilter) ([]entities.Entry, error) {
	tx := r.db.WithContext(ctx).Model(&entryModel{})
	if len(filter.Names) > 0 {
		tx = tx.Where("name IN ?", trimAll(filter.Names))
	}
	if len(filter.Filenames) > 0 {
		tx = tx.Where("recording_file IN ?", trimAll(filter.Filenames))
	}
	if len(filter.Checksums) > 0 {
		checksums := trimAll(filter.Checksums)
		tx = tx.Where(
			"recording_checksum IN ? OR id IN (?)",
			checksums,
			r.db.Table("entry_assets AS ea").
				Select("ea.entry_id").
				Joins("JOIN file_assets AS fa ON fa.id = ea.asset_id").
				Where("fa.checksum IN ?", checksums),
		)
	}
	tx = tx.Order("recorded_at DESC")
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}

	var rows []entryModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("catalog_repo_list_entries_failed", err)
	}
	items := make([]entities.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := r.loadAssociations(ctx, row)
		if err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	return items, nil
}

func (r *Repository) CreateTag(ctx context.Context, tag entities.Tag) error {
	row := tagModel{
		ID:          tag.TagID,
		Name:        tag.Name,
		NameKey:     strings.ToLower(tag.Name),
		Description: tag.Description,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrTagExists
		}
		return r.logError("catalog_repo_create_tag_failed", err, "name", tag.Name)
	}
	return nil
}

func (r *Repository) GetTagByName(ctx context.Context, name string) (entities.Tag, bool, error) {
	var row tagModel
	err := r.db.WithContext(ctx).
		Where("name_key = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Tag{}, false, nil
		}
		return entities.Tag{}, false, r.logError("catalog_repo_get_tag_failed", err, "name", name)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListTags(ctx context.Context, names []string) ([]entities.Tag, error) {
	tx := r.db.WithContext(ctx).Model(&tagModel{})
	if len(names) > 0 {
		keys := make([]string, 0, len(names))
		for _, name := range names {
			keys = append(keys, strings.ToLower(strings.TrimSpace(name)))
		}
		tx = tx.Where("name_key IN ?", keys)
	}
	var rows []tagModel
	if err := tx.Order("name_key ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("catalog_repo_list_tags_failed", err)
	}
	items := make([]entities.Tag, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetAuthorByName(ctx context.Context, displayName string) (entities.Author, bool, error) {
	var row authorModel
	err := r.db.WithContext(ctx).
		Where("LOWER(display_name) = ?", strings.ToLower(strings.TrimSpace(displayName))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Author{}, false, nil
		}
		return entities.Author{}, false, r.logError("catalog_repo_get_author_failed", err,
			"display_name", displayName,
		)
	}
	author, err := r.loadAuthorLinks(ctx, row)
	if err != nil {
		return entities.Author{}, false, err
	}
	return author, true, nil
}

func (r *Repository) ListAuthors(ctx context.Context) ([]entities.Author, error) {
	var rows []authorModel
	if err := r.db.WithContext(ctx).
		Order("display_name ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("catalog_repo_list_authors_failed", err)
	}
	items := make([]entities.Author, 0, len(rows))
	for _, row := range rows {
		author, err := r.loadAuthorLinks(ctx, row)
		if err != nil {
			return nil, err
		}
		items = append(items, author)
	}
	return items, nil
}

func (r *Repository) GetLicense(ctx context.Context, licenseID string) (entities.License, error) {
	var row licenseModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(licenseID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.License{}, domainerrors.ErrLicenseNotFound
		}
		return entities.License{}, r.logError("catalog_repo_get_license_failed", err,
			"license_id", strings.TrimSpace(licenseID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListLicenses(ctx context.Context) ([]entities.License, error) {
	var rows []licenseModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("catalog_repo_list_licenses_failed", err)
	}
	items := make([]entities.License, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) FindAssetsByChecksum(
	ctx context.Context,
	kind entities.AssetKind,
	checksums []string,
) ([]entities.FileAsset, error) {
	if len(checksums) == 0 {
		return []entities.FileAsset{}, nil
	}
	var rows []fileAssetModel
	if err := r.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Where("checksum IN ?", trimAll(checksums)).
		Order("checksum ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("catalog_repo_find_assets_failed", err, "kind", string(kind))
	}
	items := make([]entities.FileAsset, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) loadAssociations(ctx context.Context, row entryModel) (entities.Entry, error) {
	entry := row.toEntity()

	var tags []tagModel
	if err := r.db.WithContext(ctx).
		Table("tags AS t").
		Select("t.*").
		Joins("JOIN entry_tags AS et ON et.tag_id = t.id").
		Where("et.entry_id = ?", row.ID).
		Order("t.name_key ASC").
		Scan(&tags).Error; err != nil {
		return entities.Entry{}, r.logError("catalog_repo_load_tags_failed", err, "entry_id", row.ID)
	}
	for _, tag := range tags {
		entry.Tags = append(entry.Tags, tag.toEntity())
	}

	var authors []authorModel
	if err := r.db.WithContext(ctx).
		Table("authors AS a").
		Select("a.*").
		Joins("JOIN entry_authors AS ea ON ea.author_id = a.id").
		Where("ea.entry_id = ?", row.ID).
		Order("a.display_name ASC").
		Scan(&authors).Error; err != nil {
		return entities.Entry{}, r.logError("catalog_repo_load_authors_failed", err, "entry_id", row.ID)
	}
	for _, author := range authors {
		loaded, err := r.loadAuthorLinks(ctx, author)
		if err != nil {
			return entities.Entry{}, err
		}
		entry.Authors = append(entry.Authors, loaded)
	}

	var assets []fileAssetModel
	if err := r.db.WithContext(ctx).
		Table("file_assets AS fa").
		Select("fa.*").
		Joins("JOIN entry_assets AS ea ON ea.asset_id = fa.id").
		Where("ea.entry_id = ?", row.ID).
		Order("fa.created_at ASC").
		Scan(&assets).Error; err != nil {
		return entities.Entry{}, r.logError("catalog_repo_load_assets_failed", err, "entry_id", row.ID)
	}
	for _, asset := range assets {
		switch entities.AssetKind(asset.Kind) {
		case entities.AssetKindImage:
			entry.Images = append(entry.Images, asset.toEntity())
		case entities.AssetKindAttachment:
			entry.Attachments = append(entry.Attachments, asset.toEntity())
		}
	}

	var repos []repoAttachmentModel
	if err := r.db.WithContext(ctx).
		Where("entry_id = ?", row.ID).
		Order("id ASC").
		Find(&repos).Error; err != nil {
		return entities.Entry{}, r.logError("catalog_repo_load_repos_failed", err, "entry_id", row.ID)
	}
	for _, repo := range repos {
		entry.RepoAttachments = append(entry.RepoAttachments, entities.RepoAttachment{
			RepoURL:  repo.RepoURL,
			Commit:   repo.Commit,
			Filename: repo.Filename,
		})
	}
	return entry, nil
}

func (r *Repository) loadAuthorLinks(ctx context.Context, row authorModel) (entities.Author, error) {
	author := row.toEntity()
	var links []authorLinkModel
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", row.ID).
		Order("id ASC").
		Find(&links).Error; err != nil {
		return entities.Author{}, r.logError("catalog_repo_load_author_links_failed", err, "author_id", row.ID)
	}
	for _, link := range links {
		author.Links = append(author.Links, entities.AuthorLink{Label: link.Label, URL: link.URL})
	}
	return author, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "catalog/entry-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("catalog repository operation failed", fields...)
	return err
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.TrimSpace(value))
	}
	return out
}

type entryModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	Name              string    `gorm:"column:name"`
	Description       string    `gorm:"column:description"`
	RecordingFile     string    `gorm:"column:recording_file"`
	RecordingChecksum string    `gorm:"column:recording_checksum"`
	RecordedAt        time.Time `gorm:"column:recorded_at;index"`
	LicenseID         string    `gorm:"column:license_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (entryModel) TableName() string {
	return "entries"
}

func entryModelFromEntity(entry entities.Entry) entryModel {
	return entryModel{
		ID:                entry.EntryID,
		Name:              entry.Name,
		Description:       entry.Description,
		RecordingFile:     entry.RecordingFile,
		RecordingChecksum: entry.RecordingChecksum,
		RecordedAt:        entry.RecordedAt.UTC(),
		LicenseID:         entry.LicenseID,
		CreatedAt:         entry.CreatedAt.UTC(),
		UpdatedAt:         entry.UpdatedAt.UTC(),
	}
}

func (m entryModel) toEntity() entities.Entry {
	return entities.Entry{
		EntryID:           m.ID,
		Name:              m.Name,
		Description:       m.Description,
		RecordingFile:     m.RecordingFile,
		RecordingChecksum: m.RecordingChecksum,
		RecordedAt:        m.RecordedAt,
		LicenseID:         m.LicenseID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

type tagModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name"`
	NameKey     string `gorm:"column:name_key;uniqueIndex"`
	Description string `gorm:"column:description"`
}

func (tagModel) TableName() string {
	return "tags"
}

func (m tagModel) toEntity() entities.Tag {
	return entities.Tag{
		TagID:       m.ID,
		Name:        m.Name,
		Description: m.Description,
	}
}

type entryTagModel struct {
	EntryID string `gorm:"column:entry_id;primaryKey"`
	TagID   string `gorm:"column:tag_id;primaryKey"`
}

func (entryTagModel) TableName() string {
	return "entry_tags"
}

type authorModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	DisplayName string `gorm:"column:display_name"`
	UserID      string `gorm:"column:user_id"`
}

func (authorModel) TableName() string {
	return "authors"
}

func (m authorModel) toEntity() entities.Author {
	return entities.Author{
		AuthorID:    m.ID,
		DisplayName: m.DisplayName,
		UserID:      m.UserID,
	}
}

type authorLinkModel struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	AuthorID string `gorm:"column:author_id;index"`
	Label    string `gorm:"column:label"`
	URL      string `gorm:"column:url"`
}

func (authorLinkModel) TableName() string {
	return "author_links"
}

type entryAuthorModel struct {
	EntryID  string `gorm:"column:entry_id;primaryKey"`
	AuthorID string `gorm:"column:author_id;primaryKey"`
}

func (entryAuthorModel) TableName() string {
	return "entry_authors"
}

type fileAssetModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Kind      string    `gorm:"column:kind;uniqueIndex:idx_asset_kind_checksum"`
	Checksum  string    `gorm:"column:checksum;uniqueIndex:idx_asset_kind_checksum"`
	Path      string    `gorm:"column:path"`
	SizeBytes int64     `gorm:"column:size_bytes"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (fileAssetModel) TableName() string {
	return "file_assets"
}

func assetModelFromEntity(asset entities.FileAsset) fileAssetModel {
	return fileAssetModel{
		ID:        asset.AssetID,
		Kind:      string(asset.Kind),
		Checksum:  asset.Checksum,
		Path:      asset.Path,
		SizeBytes: asset.SizeBytes,
		CreatedAt: asset.CreatedAt.UTC(),
	}
}

func (m fileAssetModel) toEntity() entities.FileAsset {
	return entities.FileAsset{
		AssetID:   m.ID,
		Kind:      entities.AssetKind(m.Kind),
		Path:      m.Path,
		Checksum:  m.Checksum,
		SizeBytes: m.SizeBytes,
		CreatedAt: m.CreatedAt,
	}
}

type entryAssetModel struct {
	EntryID string `gorm:"column:entry_id;primaryKey"`
	AssetID string `gorm:"column:asset_id;primaryKey"`
}

func (entryAssetModel) TableName() string {
	return "entry_assets"
}

type repoAttachmentModel struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	EntryID  string `gorm:"column:entry_id;index"`
	RepoURL  string `gorm:"column:repo_url"`
	Commit   string `gorm:"column:commit"`
	Filename string `gorm:"column:filename"`
}

func (repoAttachmentModel) TableName() string {
	return "repo_attachments"
}

type licenseModel struct {
	ID   string `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name"`
	URL  string `gorm:"column:url"`
}

func (licenseModel) TableName() string {
	return "licenses"
}

func (m licenseModel) toEntity() entities.License {
	return entities.License{
		LicenseID: m.ID,
		Name:      m.Name,
		URL:       m.URL,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.EntryRepository = (*Repository)(nil)
var _ ports.TagRepository = (*Repository)(nil)
var _ ports.AuthorRepository = (*Repository)(nil)
var _ ports.LicenseRepository = (*Repository)(nil)
var _ ports.AssetRepository = (*Repository)(nil)
