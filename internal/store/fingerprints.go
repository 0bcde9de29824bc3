package store

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/voiceprint/voiceprint/internal/db"
)

// maxCandidates bounds the sqlite-vec neighbour query before the per-user
// filter is applied.
const maxCandidates = 4096

// Fingerprints stores one style fingerprint per session and finds the
// sessions of a user whose style is closest to a query.
type Fingerprints struct {
	conn       *sql.DB
	vector     bool
	candidates int
}

// NewFingerprints creates a Fingerprints backed by the given DB.
func NewFingerprints(database *db.DB) *Fingerprints {
	return &Fingerprints{conn: database.Conn(), vector: database.HasVector(), candidates: maxCandidates}
}

// Match is one nearest-neighbour result.
type Match struct {
	SessionID  string  `json:"session_id"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity"`
}

// Upsert stores the fingerprint of sessionID, owned by userID.
func (f *Fingerprints) Upsert(sessionID, userID string, vec []float32) error {
	if len(vec) == 0 {
		return nil
	}
	blob := float32SliceToBlob(vec)
	_, err := f.conn.Exec(`
		INSERT INTO fingerprints (session_id, user_id, vector) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET user_id = excluded.user_id, vector = excluded.vector`,
		sessionID, userID, blob,
	)
	if err != nil {
		return fmt.Errorf("store: upsert fingerprint: %w", err)
	}
	if f.vector {
		// vec0 has no upsert.
		if _, err := f.conn.Exec(`DELETE FROM vec_fingerprints WHERE id = ?`, sessionID); err != nil {
			return fmt.Errorf("store: upsert fingerprint index: %w", err)
		}
		if _, err := f.conn.Exec(`INSERT INTO vec_fingerprints (id, embedding) VALUES (?, ?)`, sessionID, blob); err != nil {
			return fmt.Errorf("store: upsert fingerprint index: %w", err)
		}
	}
	return nil
}

// Nearest returns up to k of userID's sessions ordered by L2 distance to
// query. Other users' fingerprints are never returned.
func (f *Fingerprints) Nearest(userID string, query []float32, k int) ([]Match, error) {
	if len(query) == 0 || k <= 0 {
		return nil, nil
	}
	owned, err := f.owned(userID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, nil
	}

	if f.vector {
		out, err := f.searchIndex(owned, query, k)
		if err == nil && len(out) >= min(k, len(owned)) {
			return out, nil
		}
		// Scan when the index query fails, or when other users' rows fill
		// the candidate window and push this user's sessions out of it.
	}

	out := make([]Match, 0, len(owned))
	for id, v := range owned {
		out = append(out, newMatch(id, l2(query, v)))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].SessionID < out[j].SessionID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (f *Fingerprints) owned(userID string) (map[string][]float32, error) {
	rows, err := f.conn.Query(`SELECT session_id, vector FROM fingerprints WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list fingerprints: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]float32)
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		out[id] = BlobToFloat32Slice(blob)
	}
	return out, rows.Err()
}

func (f *Fingerprints) searchIndex(owned map[string][]float32, query []float32, k int) ([]Match, error) {
	var total int
	if err := f.conn.QueryRow(`SELECT COUNT(*) FROM fingerprints`).Scan(&total); err != nil {
		return nil, err
	}
	rows, err := f.conn.Query(
		`SELECT id, distance FROM vec_fingerprints WHERE embedding MATCH ? AND k = ?
		 ORDER BY distance`,
		float32SliceToBlob(query), min(total, f.candidates),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Match
	for rows.Next() && len(out) < k {
		var id string
		var d float64
		if err := rows.Scan(&id, &d); err != nil {
			return nil, err
		}
		if _, ok := owned[id]; ok {
			out = append(out, newMatch(id, d))
		}
	}
	return out, rows.Err()
}

// newMatch converts an L2 distance into a similarity in (0, 1].
func newMatch(id string, distance float64) Match {
	return Match{SessionID: id, Distance: distance, Similarity: 1.0 / (1.0 + distance)}
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range min(len(a), len(b)) {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// float32SliceToBlob serialises a float32 slice to a little-endian byte blob.
// This is the format expected by sqlite-vec's BLOB column input.
func float32SliceToBlob(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// BlobToFloat32Slice deserialises a little-endian byte blob to a float32 slice.
func BlobToFloat32Slice(b []byte) []float32 {
	result := make([]float32, len(b)/4)
	for i := range result {
		bits := binary.LittleEndian.Uint32(b[i*4:])
		result[i] = math.Float32frombits(bits)
	}
	return result
}
