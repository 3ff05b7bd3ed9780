package prodcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"slidecast/internal/structure"
)

const hashField = "produced_hash"

// Outcome tags a cache decision.
type Outcome int

const (
	Rebuild Outcome = iota
	Hit
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	default:
		return "rebuild"
	}
}

// MarshalText renders the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Decision is the result of comparing a stored hash with a fresh key.
type Decision struct {
	Outcome Outcome
	Key     string
}

// Decide compares the stored hash of an entity with its fresh key.
func Decide(stored *string, fresh string) Decision {
	if stored != nil && *stored == fresh {
		return Decision{Outcome: Hit, Key: fresh}
	}
	return Decision{Outcome: Rebuild, Key: fresh}
}

// Key hashes the canonical form of v with its root produced_hash cleared.
func Key(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal entity: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("decode entity: %w", err)
	}
	if _, ok := doc[hashField]; ok {
		doc[hashField] = nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode canonical form: %w", err)
	}
	sum := sha256.Sum256(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return hex.EncodeToString(sum[:]), nil
}

// SegmentKey returns the cache key of a segment.
func SegmentKey(seg structure.Segment) (string, error) {
	return Key(seg)
}

// CapsuleKey returns the cache key of a capsule. Segment hashes are part of
// the key, so it should be computed after they were refreshed.
func CapsuleKey(capsule structure.Capsule) (string, error) {
	return Key(capsule)
}

// IsDigest reports whether value looks like a key produced by Key.
func IsDigest(value string) bool {
	if len(value) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(value)
	return err == nil
}
