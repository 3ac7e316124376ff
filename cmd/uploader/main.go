package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	cataloghttp "patchbay/contexts/catalog/entry-service/transport/http"
	"patchbay/internal/shared/checksum"

	"github.com/joho/godotenv"
)

// Uploader process entrypoint. Reads a JSON manifest describing one entry,
// resolves every referenced file against the server's stored assets by
// checksum, and submits the entry to POST /api/entries.
//
// Config comes from the environment (optionally a .env file):
//   PATCHBAY_URL   base URL of the API server
//   PATCHBAY_TOKEN X-Api-Token for the write endpoints

type manifest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Recording   string         `json:"recording"`
	RecordedAt  string         `json:"recorded_at"`
	License     string         `json:"license"`
	Tags        []string       `json:"tags"`
	Authors     []string       `json:"authors"`
	Images      []string       `json:"images"`
	Attachments []string       `json:"attachments"`
	Repos       []manifestRepo `json:"repos"`
}

type manifestRepo struct {
	RepoURL  string `json:"repo_url"`
	Commit   string `json:"commit"`
	Filename string `json:"filename"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func main() {
	var (
		manifestPath = flag.String("manifest", "", "path to the entry manifest JSON (required)")
		envPath      = flag.String("env", "", "optional .env file with PATCHBAY_URL / PATCHBAY_TOKEN")
		dryRun       = flag.Bool("dry-run", false, "validate server-side without persisting")
		createTags   = flag.Bool("create-tags", false, "create manifest tags missing on the server")
	)
	flag.Parse()

	if *manifestPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *envPath != "" {
		if err := godotenv.Load(*envPath); err != nil {
			log.Fatalf("load env file %s: %v", *envPath, err)
		}
	} else {
		// Default .env is optional.
		_ = godotenv.Load()
	}

	baseURL := strings.TrimRight(os.Getenv("PATCHBAY_URL"), "/")
	if baseURL == "" {
		log.Fatal("PATCHBAY_URL is required")
	}
	c := &client{
		baseURL: baseURL,
		token:   os.Getenv("PATCHBAY_TOKEN"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}

	m, err := loadManifest(*manifestPath)
	if err != nil {
		log.Fatalf("load manifest: %v", err)
	}
	recordedAt, err := parseRecordedAt(m.RecordedAt)
	if err != nil {
		log.Fatalf("parse recorded_at: %v", err)
	}

	recordingChecksum, err := checksum.File(m.Recording)
	if err != nil {
		log.Fatalf("checksum recording %s: %v", m.Recording, err)
	}

	if err := c.verifyTags(m.Tags, *createTags); err != nil {
		log.Fatalf("resolve tags: %v", err)
	}

	knownImages, newImages, err := c.splitAssets("/api/images", m.Images)
	if err != nil {
		log.Fatalf("resolve images: %v", err)
	}
	knownAttachments, newAttachments, err := c.splitAssets("/api/attachments", m.Attachments)
	if err != nil {
		log.Fatalf("resolve attachments: %v", err)
	}

	req := cataloghttp.CreateEntryRequest{
		Name:              m.Name,
		Description:       m.Description,
		RecordingFile:     filepath.Base(m.Recording),
		RecordingChecksum: recordingChecksum,
		RecordedAt:        recordedAt,
		LicenseID:         m.License,
		Tags:              m.Tags,
		Authors:           m.Authors,
		ImageChecksums:    knownImages,
		NewImages:         newImages,
		AttachChecksums:   knownAttachments,
		NewAttachments:    newAttachments,
		CreateMissingTags: *createTags,
		Write:             !*dryRun,
	}
	for _, repo := range m.Repos {
		req.Repos = append(req.Repos, cataloghttp.RepoAttachmentRequest{
			RepoURL:  repo.RepoURL,
			Commit:   repo.Commit,
			Filename: repo.Filename,
		})
	}

	var resp cataloghttp.EntryResponse
	if err := c.postJSON("/api/entries", req, &resp); err != nil {
		log.Fatalf("submit entry: %v", err)
	}
	if *dryRun {
		log.Printf("dry run ok: entry %q validates (%d tags, %d images, %d attachments)",
			resp.Name, len(resp.Tags), len(resp.Images), len(resp.Attachments))
		return
	}
	log.Printf("entry created: %s (%s)", resp.Name, resp.EntryID)
}

func loadManifest(path string) (manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, err
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return manifest{}, err
	}
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Recording) == "" {
		return manifest{}, fmt.Errorf("manifest needs name and recording")
	}
	return m, nil
}

func parseRecordedAt(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// verifyTags checks every manifest tag against the server. Missing tags are
// an error unless createTags is set; creation itself is delegated to the
// entry endpoint via create_missing_tags.
func (c *client) verifyTags(names []string, createTags bool) error {
	if len(names) == 0 {
		return nil
	}
	query := url.Values{}
	for _, name := range names {
		query.Add("name", name)
	}
	var resp cataloghttp.TagListResponse
	if err := c.getJSON("/api/tags?"+query.Encode(), &resp); err != nil {
		return err
	}
	existing := make(map[string]bool, len(resp.Items))
	for _, tag := range resp.Items {
		existing[strings.ToLower(tag.Name)] = true
	}
	var missing []string
	for _, name := range names {
		if !existing[strings.ToLower(strings.TrimSpace(name))] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if !createTags {
		return fmt.Errorf("unknown tags: %s (rerun with -create-tags to create them)", strings.Join(missing, ", "))
	}
	log.Printf("creating missing tags: %s", strings.Join(missing, ", "))
	return nil
}

// splitAssets checksums each local file and partitions the set into assets
// the server already stores (sent as checksum references) and fresh ones
// (sent with path, checksum and size).
func (c *client) splitAssets(
	lookupPath string,
	paths []string,
) ([]string, []cataloghttp.NewAssetRequest, error) {
	if len(paths) == 0 {
		return nil, nil, nil
	}

	sums := make(map[string]string, len(paths))
	query := url.Values{}
	for _, path := range paths {
		sum, err := checksum.File(path)
		if err != nil {
			return nil, nil, fmt.Errorf("checksum %s: %w", path, err)
		}
		sums[path] = sum
		query.Add("checksum", sum)
	}

	var resp cataloghttp.AssetListResponse
	if err := c.getJSON(lookupPath+"?"+query.Encode(), &resp); err != nil {
		return nil, nil, err
	}
	stored := make(map[string]bool, len(resp.Items))
	for _, asset := range resp.Items {
		stored[asset.Checksum] = true
	}

	var known []string
	var fresh []cataloghttp.NewAssetRequest
	for _, path := range paths {
		sum := sums[path]
		if stored[sum] {
			known = append(known, sum)
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, err
		}
		fresh = append(fresh, cataloghttp.NewAssetRequest{
			Path:      filepath.Base(path),
			Checksum:  sum,
			SizeBytes: info.Size(),
		})
	}
	return known, fresh, nil
}

func (c *client) getJSON(path string, target any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

func (c *client) postJSON(path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-Api-Token", c.token)
	}
	return c.do(req, target)
}

func (c *client) do(req *http.Request, target any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr cataloghttp.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s (%s)", req.Method, req.URL.Path, apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
