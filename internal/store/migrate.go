package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"clique/internal/models"
)

var (
	// ErrMalformedDocument means the stored bytes are not a JSON object of
	// the expected shape.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrUnsupportedSchema means the document was written by a newer binary.
	ErrUnsupportedSchema = errors.New("unsupported schema version")
)

// Decode parses a stored document and migrates it to CurrentSchemaVersion.
func Decode(body []byte) (*models.Document, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, ErrMalformedDocument
	}
	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := Migrate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode serializes doc at the current schema version.
func Encode(doc *models.Document) ([]byte, error) {
	out := doc.Clone()
	out.SchemaVersion = models.CurrentSchemaVersion
	out.Normalize()
	return json.Marshal(out)
}

// Migrate upgrades doc in place, one version step at a time.
func Migrate(doc *models.Document) error {
	if doc.SchemaVersion < 0 || doc.SchemaVersion > models.CurrentSchemaVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedSchema, doc.SchemaVersion)
	}
	if doc.SchemaVersion < 1 {
		migrateV1(doc)
	}
	if doc.SchemaVersion < 2 {
		migrateV2(doc)
	}
	doc.Normalize()
	return nil
}

// migrateV1 fills collections the browser build left out.
func migrateV1(doc *models.Document) {
	doc.Normalize()
	doc.SchemaVersion = 1
}

// migrateV2 collapses duplicates the browser build could produce.
func migrateV2(doc *models.Document) {
	doc.Likes = dedupeLedger(doc.Likes)
	doc.Passes = dedupeLedger(doc.Passes)

	matches := make(models.MatchSet, 0, len(doc.Matches))
	for _, p := range doc.Matches {
		if !p.Valid() || slices.ContainsFunc(matches, p.Same) {
			continue
		}
		matches = append(matches, p)
	}
	doc.Matches = matches

	merged := make([]models.Availability, 0, len(doc.Availabilities))
	index := make(map[string]int, len(doc.Availabilities))
	for _, a := range doc.Availabilities {
		if a.UserID == "" {
			continue
		}
		if i, ok := index[a.UserID]; ok {
			// later entries replace earlier ones, matching whole-list edits
			merged[i].Slots = a.Slots
			continue
		}
		index[a.UserID] = len(merged)
		merged = append(merged, a)
	}
	for i := range merged {
		if merged[i].Slots == nil {
			merged[i].Slots = []models.TimeSlot{}
		}
	}
	doc.Availabilities = merged

	doc.Normalize()
	doc.SchemaVersion = 2
}

func dedupeLedger(l models.Ledger) models.Ledger {
	out := make(models.Ledger, len(l))
	for actor, targets := range l {
		for _, t := range targets {
			if t == "" || t == actor {
				continue
			}
			out.Add(actor, t)
		}
	}
	return out
}
