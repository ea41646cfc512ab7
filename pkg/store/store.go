// Package store persists generated logos.
//
// Logos can always be regenerated, so persistence is optional: it gives
// other services a place to read the PNG and its metadata without linking
// the generator. A record is keyed by its (name, symbol) pair; saving the
// same pair again overwrites the previous record and keeps its ID and
// creation time.
//
// Backends:
//   - [MongoStore]: one document per pair in a MongoDB collection
//   - [MemoryStore]: process-local map, for tests and single-binary use
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tokenlogo/pkg/errors"
)

// idNamespace scopes record IDs so they never collide with other
// name-based UUIDs.
var idNamespace = uuid.MustParse("6f1b3c8e-2f4d-5a7e-9b0c-1d2e3f405162")

// Record is a persisted logo.
type Record struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Symbol    string    `bson:"symbol" json:"symbol"`
	Seed      uint32    `bson:"seed" json:"seed"`
	SHA256    string    `bson:"sha256" json:"sha256"`
	Size      int       `bson:"size" json:"size"`
	PNG       []byte    `bson:"png" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Store persists logo records. Implementations must be safe for concurrent use.
type Store interface {
	// Save inserts or replaces the record for rec.Name and rec.Symbol.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record for a pair, or an error with
	// [errors.ErrCodeNotFound] when none exists.
	Get(ctx context.Context, name, symbol string) (*Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// RecordID returns the stable ID for a name/symbol pair.
func RecordID(name, symbol string) string {
	return uuid.NewSHA1(idNamespace, []byte(name+"\x00"+symbol)).String()
}

// NewRecord builds a record for freshly generated PNG bytes.
func NewRecord(name, symbol string, seed uint32, png []byte) *Record {
	sum := sha256.Sum256(png)
	now := time.Now().UTC()
	return &Record{
		ID:        RecordID(name, symbol),
		Name:      name,
		Symbol:    symbol,
		Seed:      seed,
		SHA256:    hex.EncodeToString(sum[:]),
		Size:      len(png),
		PNG:       png,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func notFound(name, symbol string) error {
	return errors.New(errors.ErrCodeNotFound, "no logo stored for %s (%s)", name, symbol)
}
