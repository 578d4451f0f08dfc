// Package framestore persists decoded frame records to sqlite for
// later analysis.
package framestore

import (
	"database/sql"
	"fmt"

	"github.com/softradio/nonht/internal/phy"
	_ "modernc.org/sqlite"
)

type Store struct {
	*sql.DB
}

// Open opens (creating if needed) a frame store at path. ":memory:"
// gives an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS frames (
			frame_id          TEXT PRIMARY KEY,
			bandwidth         TEXT,
			mcs               BIGINT,
			psdu_octets       BIGINT,
			data_symbols      BIGINT,
			coarse_cfo_hz     DOUBLE,
			fine_cfo_hz       DOUBLE,
			noise_var         DOUBLE,
			fcs_valid         BIGINT,
			summary           TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("framestore: %w", err)
	}

	return &Store{db}, nil
}

// RecordFrame inserts one decoded frame. summary and fcsValid come
// from MPDU inspection; pass an empty summary and false when the
// payload was not inspected.
func (s *Store) RecordFrame(f phy.Frame, bw phy.Bandwidth, fcsValid bool, summary string) error {
	valid := 0
	if fcsValid {
		valid = 1
	}
	_, err := s.Exec(`
		INSERT INTO frames (frame_id, bandwidth, mcs, psdu_octets, data_symbols,
			coarse_cfo_hz, fine_cfo_hz, noise_var, fcs_valid, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, bw.String(), f.Params.MCSIndex, f.Params.PSDULength, f.Params.NumDataSymbols,
		f.CoarseCFO, f.FineCFO, f.Channel.NoiseVar, valid, summary)
	if err != nil {
		return fmt.Errorf("framestore: %w", err)
	}
	return nil
}

// FrameCount returns the number of recorded frames.
func (s *Store) FrameCount() (int, error) {
	var n int
	if err := s.QueryRow(`SELECT COUNT(*) FROM frames`).Scan(&n); err != nil {
		return 0, fmt.Errorf("framestore: %w", err)
	}
	return n, nil
}
