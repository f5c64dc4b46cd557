package input

import (
	"bufio"
	"bytes"
	"strings"
)

// Action is something the player asked for.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionClick
	ActionBuyMultiplier
	ActionBuyClickShare
	ActionBuyBuilding // Index holds the source
	ActionSave
	ActionLoad
	ActionCatch
	ActionCursorUp
	ActionCursorDown
	ActionBuySelected
)

// Command is one decoded keypress.
type Command struct {
	Action Action
	Index  int // Source index for ActionBuyBuilding
}

// BuildingKeys maps shop keys to source indices, left to right along the
// number row.
const BuildingKeys = "1234567890-=\\"

// BuildingKey returns the shop key for source i, or 0 if it has none.
func BuildingKey(i int) byte {
	if i < 0 || i >= len(BuildingKeys) {
		return 0
	}
	return BuildingKeys[i]
}

// Input represents the current frame's input.
type Input struct {
	Commands []Command // In arrival order
	Pressed  []byte    // Raw bytes read this frame
	eof      bool      // The reader reached EOF
}

// Quit reports whether any command asked to quit.
func (in Input) Quit() bool {
	for _, c := range in.Commands {
		if c.Action == ActionQuit {
			return true
		}
	}
	return false
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	closed  bool
	pending []byte // Incomplete escape sequence held back for one frame
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// decodes them into commands. A closed stream produces a quit command.
func ReadInput(s *Stream) Input {
	buf := s.pending
	carried := len(buf) > 0
	s.pending = nil

	// Drain all available bytes
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	// An arrow key may be split across frames; give its tail one frame to arrive.
	if !carried && !s.closed {
		if n := incompleteEscape(buf); n > 0 {
			s.pending = append([]byte(nil), buf[len(buf)-n:]...)
			buf = buf[:len(buf)-n]
		}
	}

	in := Input{
		Commands: Parse(buf),
		Pressed:  buf,
		eof:      s.closed,
	}
	if s.closed {
		in.Commands = append(in.Commands, Command{Action: ActionQuit})
	}
	return in
}

// Parse decodes raw terminal bytes into commands.
func Parse(buf []byte) []Command {
	var cmds []Command
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// Check for escape sequences (arrow keys, etc.)
		if b == '\x1b' && i+1 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			n, cmd := parseEscape(buf[i:])
			if cmd.Action != ActionNone {
				cmds = append(cmds, cmd)
			}
			i += n - 1
			continue
		}

		if cmd := commandForByte(b); cmd.Action != ActionNone {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// incompleteEscape returns the length of a trailing escape sequence that is
// still missing its final byte, or 0.
func incompleteEscape(buf []byte) int {
	e := bytes.LastIndexByte(buf, '\x1b')
	if e < 0 {
		return 0
	}
	tail := buf[e:]
	if len(tail) == 1 {
		return 1
	}
	if tail[1] != '[' && tail[1] != 'O' {
		return 0
	}
	for _, b := range tail[2:] {
		if b >= 0x40 && b <= 0x7e {
			return 0
		}
	}
	return len(tail)
}

// parseEscape decodes a CSI/SS3 sequence starting at seq[0] == ESC and
// returns how many bytes it spans.
func parseEscape(seq []byte) (int, Command) {
	// Skip parameter bytes until the final byte (0x40-0x7e).
	j := 2
	for j < len(seq) && (seq[j] < 0x40 || seq[j] > 0x7e) {
		j++
	}
	if j >= len(seq) {
		return len(seq), Command{}
	}
	switch seq[j] {
	case 'A': // Up arrow
		return j + 1, Command{Action: ActionCursorUp}
	case 'B': // Down arrow
		return j + 1, Command{Action: ActionCursorDown}
	}
	return j + 1, Command{}
}

// commandForByte maps a single keypress.
func commandForByte(b byte) Command {
	switch b {
	case 'q', 'Q', '\x1b', '\x03': // ESC and Ctrl-C in raw mode
		return Command{Action: ActionQuit}
	case ' ':
		return Command{Action: ActionClick}
	case 'b', 'B':
		return Command{Action: ActionBuyMultiplier}
	case 'c', 'C':
		return Command{Action: ActionBuyClickShare}
	case 's', 'S':
		return Command{Action: ActionSave}
	case 'l', 'L':
		return Command{Action: ActionLoad}
	case 'g', 'G':
		return Command{Action: ActionCatch}
	case 'k', 'K':
		return Command{Action: ActionCursorUp}
	case 'j', 'J':
		return Command{Action: ActionCursorDown}
	case '\n', '\r':
		return Command{Action: ActionBuySelected}
	}
	if i := strings.IndexByte(BuildingKeys, b); i >= 0 {
		return Command{Action: ActionBuyBuilding, Index: i}
	}
	return Command{}
}
