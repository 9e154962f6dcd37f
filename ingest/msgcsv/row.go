// Package msgcsv provides utilities for parsing bridge message workload
// CSV data used to drive simulations.
package msgcsv

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"bridgeControl/utils"
)

// MsgRow represents one outbound message row from the workload CSV.
// Expected columns: blockNumber,timestamp,network,path,sizeBytes
type MsgRow struct {
	BlockNumber uint64
	Timestamp   uint64
	Network     string
	Path        string
	SizeBytes   uint32
}

// Dest builds the remote location this row targets.
func (r MsgRow) Dest() utils.RemoteLocation {
	return utils.RemoteLocation{
		Version: 4,
		Network: r.Network,
		Path:    r.Path,
	}
}

// ParseRow converts a CSV record into a MsgRow.
func ParseRow(record []string) (MsgRow, error) {
	var row MsgRow
	if len(record) < 5 {
		return row, ErrShortRecord
	}

	blockNum, err := strconv.ParseUint(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return row, err
	}
	ts, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 64)
	if err != nil {
		return row, err
	}
	size, err := strconv.ParseUint(strings.TrimSpace(record[4]), 10, 32)
	if err != nil {
		return row, err
	}

	row.BlockNumber = blockNum
	row.Timestamp = ts
	row.Network = strings.TrimSpace(record[2])
	row.Path = strings.TrimSpace(record[3])
	row.SizeBytes = uint32(size)
	return row, nil
}

// ErrShortRecord reports a CSV record with too few columns.
var ErrShortRecord = errors.New("msgcsv: record has fewer than 5 columns")

// ReadWorkload reads up to limit message rows from the CSV file at path.
// A limit of 0 reads the whole file. A header row (first column not a
// number) is skipped.
func ReadWorkload(path string, limit int) ([]MsgRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows []MsgRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := ParseRow(record)
		if err != nil {
			if len(rows) == 0 {
				// tolerate a header line
				continue
			}
			return nil, err
		}
		rows = append(rows, row)
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	return rows, nil
}

// MapLane deterministically maps a destination path to one of n lanes.
// Uses SHA-256 of the path for uniform distribution.
func MapLane(path string, lanes int) utils.LaneID {
	if lanes <= 0 {
		lanes = 1
	}
	hash := sha256.Sum256([]byte(strings.ToLower(path)))
	idx := binary.BigEndian.Uint64(hash[:8]) % uint64(lanes)

	var id [4]byte
	binary.BigEndian.PutUint32(id[:], uint32(idx))
	return utils.NewLaneID(id[0], id[1], id[2], id[3])
}
