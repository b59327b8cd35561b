package report

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"envcheck/internal/check"
)

// Fingerprint hashes the facts of every result with BLAKE2b-256. Two
// environments with the same interpreter, packages, GPUs and mounts produce
// the same value. It is empty when no check recorded facts.
func Fingerprint(sum check.Summary) string {
	var entries []string
	for _, r := range sum.Results {
		for key, value := range r.Facts {
			entries = append(entries, r.Name+"/"+key+"="+value)
		}
	}
	if len(entries) == 0 {
		return ""
	}
	sort.Strings(entries)

	digest := blake2b.Sum256([]byte(strings.Join(entries, "\n")))
	return hex.EncodeToString(digest[:])
}

// ShortFingerprint returns the first 12 hex characters.
func ShortFingerprint(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12]
}
