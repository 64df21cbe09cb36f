package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainItem     = "catalogsync/item/v" + IRVersion
	DomainSnapshot = "catalogsync/snapshot/v" + IRVersion
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ItemFingerprint computes the content hash of an item.
// Two items with the same identity and the same fingerprint are unchanged,
// even when they are distinct view-model instances.
func ItemFingerprint(item ContentItem) (string, error) {
	obj := IRObject{
		"identity": IRString(item.Identity()),
		"content":  item.Content(),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ItemFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainItem, canonical), nil
}

// SnapshotHash computes a stable hash of a snapshot's observable structure
// and item content. Items without content contribute their identity only.
func SnapshotHash(s Snapshot) (string, error) {
	sections := make(IRArray, len(s.sections))
	for i, sec := range s.sections {
		items := make(IRArray, len(sec.Items))
		for j, item := range sec.Items {
			entry := IRObject{"identity": IRString(item.Identity())}
			if ci, ok := item.(ContentItem); ok {
				entry["content"] = ci.Content()
			}
			items[j] = entry
		}
		sections[i] = IRObject{
			"identity": IRString(sec.Metadata.Identity()),
			"type":     IRString(sec.Metadata.Type.String()),
			"title":    IRString(sec.Metadata.Title),
			"items":    items,
		}
	}

	canonical, err := MarshalCanonical(sections)
	if err != nil {
		return "", fmt.Errorf("SnapshotHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// MustSnapshotHash is like SnapshotHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSnapshotHash(s Snapshot) string {
	h, err := SnapshotHash(s)
	if err != nil {
		panic(err)
	}
	return h
}
