package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a stage key "<stage>:<sha256 of the JSON-encoded parts>".
// Struct fields encode in declaration order, so equal options give equal
// keys.
func hashKey(stage string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return stage + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Tree keys use the hash of the tree
// file's bytes, so editing the file invalidates every stage built from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
