package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Hash computes the SHA-256 of data as a 64-char hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ImageKey builds the cache key for a generated image: a hash of the
// normalized prompt plus the platform target. Prompts differing only in
// whitespace or case share a key.
func ImageKey(prompt, platformID string, width, height int) string {
	return hashKey("img", normalizePrompt(prompt), strings.ToLower(platformID), width, height)
}

// hashKey produces "prefix:sha256(parts)" from the JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// normalizePrompt lowercases and collapses runs of whitespace so trivially
// different prompts fingerprint identically.
func normalizePrompt(p string) string {
	return strings.Join(strings.Fields(strings.ToLower(p)), " ")
}
