// Package save persists game snapshots as versioned plain text.
//
// The format is one value per line, version tag first:
//
//	5
//	<bank>
//	<multiplier>
//	<base yield>
//	<multiplier purchases>
//	<click share purchases>
//	<click share>
//	<owned count of source 1>
//	...
//
// Readers split on any whitespace, so hand-edited files still load.
package save

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tomz197/blackwall/internal/game"
)

var (
	// ErrNotFound means there is no save for the requested key.
	ErrNotFound = errors.New("save not found")
	// ErrVersionMismatch means the save was written by an incompatible version.
	ErrVersionMismatch = errors.New("save version mismatch")
)

// Encode writes s in the plain text format.
func Encode(w io.Writer, s game.Snapshot) error {
	bw := bufio.NewWriter(w)
	lines := []string{
		strconv.Itoa(s.Version),
		formatFloat(s.Bank),
		formatFloat(s.Multiplier),
		formatFloat(s.BaseYield),
		strconv.Itoa(s.MultipliersBought),
		strconv.Itoa(s.ClickSharesBought),
		formatFloat(s.ClickShare),
	}
	for _, c := range s.Counts {
		lines = append(lines, strconv.Itoa(c))
	}
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a snapshot. A save from another version yields ErrVersionMismatch
// without reading further.
func Decode(r io.Reader) (game.Snapshot, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	d := decoder{sc: sc}

	var s game.Snapshot
	s.Version = d.int("version")
	if d.err != nil {
		return game.Snapshot{}, d.err
	}
	if s.Version != game.SaveVersion {
		return game.Snapshot{}, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, s.Version, game.SaveVersion)
	}

	s.Bank = d.float("bank")
	s.Multiplier = d.float("multiplier")
	s.BaseYield = d.float("base yield")
	s.MultipliersBought = d.count("multiplier purchases")
	s.ClickSharesBought = d.count("click share purchases")
	s.ClickShare = d.float("click share")
	for d.err == nil && sc.Scan() {
		c, err := strconv.Atoi(sc.Text())
		if err != nil || c < 0 {
			d.err = fmt.Errorf("source %d count %q: invalid", len(s.Counts)+1, sc.Text())
			break
		}
		s.Counts = append(s.Counts, c)
	}
	if d.err == nil {
		d.err = sc.Err()
	}
	if d.err != nil {
		return game.Snapshot{}, d.err
	}
	return s, nil
}

// decoder reads required fields, remembering the first failure.
type decoder struct {
	sc  *bufio.Scanner
	err error
}

func (d *decoder) next(field string) (string, bool) {
	if d.err != nil {
		return "", false
	}
	if !d.sc.Scan() {
		d.err = d.sc.Err()
		if d.err == nil {
			d.err = fmt.Errorf("%s: %w", field, io.ErrUnexpectedEOF)
		}
		return "", false
	}
	return d.sc.Text(), true
}

func (d *decoder) int(field string) int {
	tok, ok := d.next(field)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		d.err = fmt.Errorf("%s: %w", field, err)
	}
	return v
}

func (d *decoder) count(field string) int {
	v := d.int(field)
	if d.err == nil && v < 0 {
		d.err = fmt.Errorf("%s: negative value %d", field, v)
	}
	return v
}

func (d *decoder) float(field string) float64 {
	tok, ok := d.next(field)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(tok, 64)
	switch {
	case err != nil:
		d.err = fmt.Errorf("%s: %w", field, err)
	case math.IsNaN(v) || math.IsInf(v, 0):
		d.err = fmt.Errorf("%s: non-finite value %q", field, tok)
	}
	return v
}

// formatFloat prints the shortest text that parses back to f exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
