// Package encoding packs tile grids into short strings for snapshots.
package encoding

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// gridVersion prefixes every packed grid so the layout can change later.
const gridVersion = 1

// Run is Len repeats of ID.
type Run struct {
	ID  uint16
	Len int
}

var ErrGridVersion = errors.New("unknown grid version")

// Runs collapses consecutive equal ids.
func Runs[T ~uint8 | ~uint16](ids []T) []Run {
	var out []Run
	for _, id := range ids {
		if n := len(out); n > 0 && out[n-1].ID == uint16(id) {
			out[n-1].Len++
			continue
		}
		out = append(out, Run{ID: uint16(id), Len: 1})
	}
	return out
}

// Expand is the inverse of Runs. It fails once the output would exceed
// limit entries; limit <= 0 disables the check.
func Expand(runs []Run, limit int) ([]uint16, error) {
	total := 0
	for _, r := range runs {
		if r.Len <= 0 {
			return nil, fmt.Errorf("empty run of %d", r.ID)
		}
		total += r.Len
		if limit > 0 && total > limit {
			return nil, fmt.Errorf("runs overflow %d entries", limit)
		}
	}
	out := make([]uint16, 0, total)
	for _, r := range runs {
		for k := 0; k < r.Len; k++ {
			out = append(out, r.ID)
		}
	}
	return out, nil
}

// PackRuns writes the version byte then (id, len-1) uvarint pairs, base64
// without padding.
func PackRuns(runs []Run) string {
	buf := make([]byte, 1, 1+len(runs)*3)
	buf[0] = gridVersion
	for _, r := range runs {
		buf = binary.AppendUvarint(buf, uint64(r.ID))
		buf = binary.AppendUvarint(buf, uint64(r.Len-1))
	}
	return base64.RawStdEncoding.EncodeToString(buf)
}

func UnpackRuns(s string) ([]Run, error) {
	raw, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	if len(raw) == 0 || raw[0] != gridVersion {
		return nil, ErrGridVersion
	}
	var out []Run
	for i := 1; i < len(raw); {
		id, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("grid: bad id at byte %d", i)
		}
		i += n
		extra, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("grid: bad run at byte %d", i)
		}
		i += n
		if id > 0xFFFF {
			return nil, fmt.Errorf("grid: id %d out of range", id)
		}
		if extra >= 1<<31 {
			return nil, fmt.Errorf("grid: run of %d too long", extra+1)
		}
		out = append(out, Run{ID: uint16(id), Len: int(extra) + 1})
	}
	return out, nil
}

func EncodeGrid[T ~uint8 | ~uint16](ids []T) string { return PackRuns(Runs(ids)) }

// DecodeGrid unpacks a grid written by EncodeGrid, refusing more than limit
// cells.
func DecodeGrid(s string, limit int) ([]uint16, error) {
	runs, err := UnpackRuns(s)
	if err != nil {
		return nil, err
	}
	return Expand(runs, limit)
}
