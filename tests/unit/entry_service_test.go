package unit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	entryservice "patchbay/contexts/catalog/entry-service"
	"patchbay/contexts/catalog/entry-service/domain/entities"
	domainerrors "patchbay/contexts/catalog/entry-service/domain/errors"
	"patchbay/contexts/catalog/entry-service/ports"
	httptransport "patchbay/contexts/catalog/entry-service/transport/http"
)

func entryRequest(name string) httptransport.CreateEntryRequest {
	return httptransport.CreateEntryRequest{
		Name:              name,
		Description:       "a slow evolving drone",
		RecordingFile:     name + ".flac",
		RecordingChecksum: "9e107d9d372bb6826bd81d3542a419d6",
		RecordedAt:        time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		LicenseID:         "7",
		Write:             true,
	}
}

func TestCreateEntryResolvesEverything(t *testing.T) {
	module := entryservice.NewInMemoryModule(nil)
	module.Store.SetAuthor(entities.Author{
		AuthorID:    "author-1",
		DisplayName: "rlainson",
		Links:       []entities.AuthorLink{{Label: "homepage", URL: "https://example.org"}},
	})
	module.Store.SetAsset(entities.FileAsset{
		AssetID:  "asset-img-1",
		Kind:     entities.AssetKindImage,
		Path:     "images/front.png",
		Checksum: "11111111111111111111111111111111",
	})

	req := entryRequest("evening drone")
	req.Tags = []string{"ambient", "drone"}
	req.CreateMissingTags = true
	req.Authors = []string{"rlainson"}
	req.ImageChecksums = []string{"11111111111111111111111111111111"}
	req.NewAttachments = []httptransport.NewAssetRequest{
		{Path: "patch.pd", Checksum: "22222222222222222222222222222222", SizeBytes: 1024},
	}
	req.Repos = []httptransport.RepoAttachmentRequest{
		{RepoURL: "https://github.com/example/patches", Commit: "2f7c1aa", Filename: "drone.pd"},
	}

	created, err := module.Handler.CreateEntryHandler(context.Background(), req)
	if err != nil {
		t.Fatalf("create entry failed: %v", err)
	}
	if created.EntryID == "" {
		t.Fatal("expected a generated entry id")
	}
	if created.License.Name != "CC Attribution 3.0 Unported" {
		t.Fatalf("license not resolved: %+v", created.License)
	}

	fetched, err := module.Handler.GetEntryHandler(context.Background(), created.EntryID)
	if err != nil {
		t.Fatalf("get entry failed: %v", err)
	}
	if len(fetched.Tags) != 2 || len(fetched.Authors) != 1 {
		t.Fatalf("associations not persisted: %d tags, %d authors", len(fetched.Tags), len(fetched.Authors))
	}
	if len(fetched.Images) != 1 || fetched.Images[0].AssetID != "asset-img-1" {
		t.Fatalf("known image not attached: %+v", fetched.Images)
	}
	if len(fetched.Attachments) != 1 || fetched.Attachments[0].Checksum != "22222222222222222222222222222222" {
		t.Fatalf("fresh attachment not persisted: %+v", fetched.Attachments)
	}
	if len(fetched.RepoAttachments) != 1 || fetched.RepoAttachments[0].Commit != "2f7c1aa" {
		t.Fatalf("repo attachment lost: %+v", fetched.RepoAttachments)
	}

	// The fresh attachment must now be findable for uploader dedup.
	assets, err := module.Handler.FindAssetsHandler(
		context.Background(),
		entities.AssetKindAttachment,
		[]string{"22222222222222222222222222222222"},
	)
	if err != nil {
		t.Fatalf("find assets failed: %v", err)
	}
	if len(assets.Items) != 1 {
		t.Fatalf("expected stored attachment to be findable, got %d", len(assets.Items))
	}
}

func TestCreateEntryDryRunPersistsNothing(t *testing.T) {
	module := entryservice.NewInMemoryModule(nil)

	req := entryRequest("draft entry")
	req.Write = false
	req.Tags = []string{"ambient"}
	req.CreateMissingTags = true

	resp, err := module.Handler.CreateEntryHandler(context.Background(), req)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if resp.Name != "draft entry" {
		t.Fatalf("dry run response should echo the resolved entry, got %+v", resp)
	}

	listed, err := module.Handler.ListEntriesHandler(context.Background(), ports.EntryFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Items) != 0 {
		t.Fatalf("dry run persisted %d entries", len(listed.Items))
	}
	tags, err := module.Handler.ListTagsHandler(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tags failed: %v", err)
	}
	if len(tags.Items) != 0 {
		t.Fatalf("dry run persisted %d tags", len(tags.Items))
	}
}

func TestCreateEntryReportsMissingTags(t *testing.T) {
	module := entryservice.NewInMemoryModule(nil)

	req := entryRequest("tagged entry")
	req.Tags = []string{"ambient", "granular"}

	_, err := module.Handler.CreateEntryHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
	for _, name := range []string{"ambient", "granular"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error should name missing tag %q: %v", name, err)
		}
	}
}

func TestCreateEntryUnknownAuthorAndLicense(t *testing.T) {
	module := entryservice.NewInMemoryModule(nil)

	req := entryRequest("authored entry")
	req.Authors = []string{"nobody"}
	if _, err := module.Handler.CreateEntryHandler(context.Background(), req); !errors.Is(err, domainerrors.ErrAuthorNotFound) {
		t.Fatalf("expected ErrAuthorNotFound, got %v", err)
	}

	req = entryRequest("licensed entry")
	req.LicenseID = "99"
	if _, err := module.Handler.CreateEntryHandler(context.Background(), req); !errors.Is(err, domainerrors.ErrLicenseNotFound) {
		t.Fatalf("expected ErrLicenseNotFound, got %v", err)
	}
}

func TestChecksumDedupPerKind(t *testing.T) {
	module := entryservice.NewInMemoryModule(nil)
	module.Store.SetAsset(entities.FileAsset{
		AssetID:  "asset-img-1",
		Kind:     entities.AssetKindImage,
		Path:     "images/front.png",
		Checksum: "11111111111111111111111111111111",
	})

	// Same checksum, same kind: conflict naming the stored path.
	req := entryRequest("dup image entry")
	req.NewImages = []httptransport.NewAssetRequest{
		{Path: "images/other.png", Checksum: "11111111111111111111111111111111"},
	}
	_, err := module.Handler.CreateEntryHandler(context.Background(), req)
	if !errors.Is(err, domainerrors.ErrDuplicateAsset) {
		t.Fatalf("expected ErrDuplicateAsset, got %v", err)
	}
	if !strings.Contains(err.Error(), "images/front.png") {
		t.Fatalf("conflict should name the stored path: %v", err)
	}

	// Same checksum under a different kind is a different asset space.
	req = entryRequest("cross kind entry")
	req.NewAttachments = []httptransport.NewAssetRequest{
		{Path: "patch.pd", Checksum: "11111111111111111111111111111111"},
	}
	if _, err := module.Handler.CreateEntryHandler(context.Background(), req); err != nil {
		t.Fatalf("cross-kind checksum should be accepted: %v", err)
	}
}

func TestTagNamesUniqueCaseInsensitively(t *testing.T) {
	module := entryservice.NewInMemoryModule(nil)

	created, err := module.Handler.CreateTagHandler(context.Background(), httptransport.CreateTagRequest{
		Name: "Ambient",
	})
	if err != nil {
		t.Fatalf("create tag failed: %v", err)
	}

	if _, err := module.Handler.CreateTagHandler(context.Background(), httptransport.CreateTagRequest{
		Name: "ambient",
	}); !errors.Is(err, domainerrors.ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}

	// Entry creation resolves the existing tag regardless of case.
	req := entryRequest("cased tag entry")
	req.Tags = []string{"AMBIENT"}
	resp, err := module.Handler.CreateEntryHandler(context.Background(), req)
	if err != nil {
		t.Fatalf("create entry failed: %v", err)
	}
	if len(resp.Tags) != 1 || resp.Tags[0].TagID != created.TagID {
		t.Fatalf("existing tag not reused: %+v", resp.Tags)
	}
}

func TestListEntriesFiltersAndOrder(t *testing.T) {
	module := entryservice.NewInMemoryModule(nil)

	older := entryRequest("older entry")
	older.RecordedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older.RecordingChecksum = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	if _, err := module.Handler.CreateEntryHandler(context.Background(), older); err != nil {
		t.Fatalf("create older failed: %v", err)
	}
	newer := entryRequest("newer entry")
	newer.RecordedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	newer.RecordingChecksum = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	if _, err := module.Handler.CreateEntryHandler(context.Background(), newer); err != nil {
		t.Fatalf("create newer failed: %v", err)
	}

	listed, err := module.Handler.ListEntriesHandler(context.Background(), ports.EntryFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Items) != 2 || listed.Items[0].Name != "newer entry" {
		t.Fatalf("expected newest-first ordering, got %+v", listed.Items)
	}

	byName, err := module.Handler.ListEntriesHandler(context.Background(), ports.EntryFilter{
		Names: []string{"older entry"},
	})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if len(byName.Items) != 1 || byName.Items[0].Name != "older entry" {
		t.Fatalf("name filter wrong: %+v", byName.Items)
	}

	byChecksum, err := module.Handler.ListEntriesHandler(context.Background(), ports.EntryFilter{
		Checksums: []string{"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"},
	})
	if err != nil {
		t.Fatalf("checksum list failed: %v", err)
	}
	if len(byChecksum.Items) != 1 || byChecksum.Items[0].Name != "newer entry" {
		t.Fatalf("checksum filter wrong: %+v", byChecksum.Items)
	}
}

func TestFeedRendersNewestFirst(t *testing.T) {
	module := entryservice.NewInMemoryModule(nil)

	for i, name := range []string{"first", "second", "third"} {
		req := entryRequest(name)
		req.RecordedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		req.RecordingChecksum = ""
		if _, err := module.Handler.CreateEntryHandler(context.Background(), req); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	feed, err := module.Handler.FeedHandler(context.Background(), "http://localhost:8080", time.Now().UTC())
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if feed.Version != "2.0" {
		t.Fatalf("feed version = %s", feed.Version)
	}
	if len(feed.Channel.Items) != 3 {
		t.Fatalf("expected 3 feed items, got %d", len(feed.Channel.Items))
	}
	if feed.Channel.Items[0].Title != "third" || feed.Channel.Items[2].Title != "first" {
		t.Fatalf("feed not newest-first: %+v", feed.Channel.Items)
	}
	if !strings.HasPrefix(feed.Channel.Items[0].Link, "http://localhost:8080/api/entries/") {
		t.Fatalf("feed item link wrong: %s", feed.Channel.Items[0].Link)
	}
}

func TestDefaultLicensesSeeded(t *testing.T) {
	module := entryservice.NewInMemoryModule(nil)
	licenses, err := module.Handler.ListLicensesHandler(context.Background())
	if err != nil {
		t.Fatalf("list licenses failed: %v", err)
	}
	if len(licenses.Items) != 8 {
		t.Fatalf("expected the 8 default licenses, got %d", len(licenses.Items))
	}
	if licenses.Items[0].Name != "All rights reserved" {
		t.Fatalf("unexpected first license: %+v", licenses.Items[0])
	}
}
