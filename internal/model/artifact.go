package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ArtifactVersion is written into every artifact's metadata.
const ArtifactVersion = "1.0"

// ErrInvalidFormat indicates an artifact missing one of its required
// top-level keys.
var ErrInvalidFormat = errors.New("invalid artifact format")

// ArtifactMetadata describes the snapshot contained in an artifact.
type ArtifactMetadata struct {
	CreatedAt      time.Time `json:"created_at"`
	Type           string    `json:"type"`
	Description    string    `json:"description"`
	Version        string    `json:"version"`
	TotalDocuments int64     `json:"total_documents"`
}

// BackupArtifact is the full serialized snapshot: every collection's
// documents plus metadata. It is immutable once written; restore only reads
// it.
//
// Order records the collection keys in the order they were written to (or
// read from) the JSON blob. Restore iterates Order rather than re-deriving
// the collection set, so an artifact produced under a different collection
// configuration restores exactly what it contains.
type BackupArtifact struct {
	Collections map[string][]DocumentRecord
	Metadata    ArtifactMetadata
	Order       []string
}

// MarshalJSON emits the artifact with collections in Order, so two backups
// of the same data produce byte-identical, diffable blobs.
func (a *BackupArtifact) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"collections":{`)
	for i, name := range a.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		docs := a.Collections[name]
		if docs == nil {
			docs = []DocumentRecord{}
		}
		val, err := json.Marshal(docs)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteString(`},"metadata":`)
	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, err
	}
	buf.Write(meta)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode serializes the artifact as pretty-printed UTF-8 JSON, the persisted
// blob format.
func (a *BackupArtifact) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return data, nil
}

// DecodeArtifact parses an artifact blob, preserving the order collection
// keys appear in the JSON. It returns ErrInvalidFormat when either required
// top-level key is absent.
func DecodeArtifact(data []byte) (*BackupArtifact, error) {
	var raw struct {
		Collections json.RawMessage `json:"collections"`
		Metadata    json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if raw.Collections == nil || raw.Metadata == nil {
		return nil, fmt.Errorf("artifact must have collections and metadata keys: %w", ErrInvalidFormat)
	}

	a := &BackupArtifact{Collections: make(map[string][]DocumentRecord)}
	if err := json.Unmarshal(raw.Metadata, &a.Metadata); err != nil {
		return nil, fmt.Errorf("decode artifact metadata: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Collections))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode artifact collections: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("artifact collections must be an object: %w", ErrInvalidFormat)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode artifact collections: %w", err)
		}
		name := tok.(string)
		var docs []DocumentRecord
		if err := dec.Decode(&docs); err != nil {
			return nil, fmt.Errorf("decode collection %s: %w", name, err)
		}
		if docs == nil {
			docs = []DocumentRecord{}
		}
		a.Order = append(a.Order, name)
		a.Collections[name] = docs
	}
	return a, nil
}
