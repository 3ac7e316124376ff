// Package entryservice implements the patchbay catalog.
//
// The module owns entries (audio patch recordings with metadata), tags,
// authors, the fixed license table, file assets with checksum-based dedup,
// repository attachments and the recent-entries RSS feed. Business rules
// live in domain/application layers; infrastructure sits behind ports and
// adapters.
package entryservice
