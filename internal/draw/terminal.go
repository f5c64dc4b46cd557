// Package draw writes frames to an ANSI terminal.
package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1400 bytes stays under a typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

// ChunkWriter accumulates text for terminal output and writes in chunks for optimal
// network flow (e.g. over SSH). Use WriteFrame to accumulate, then Flush to write
// to the underlying writer.
type ChunkWriter struct {
	buf  strings.Builder
	bufw *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{
		bufw: bufio.NewWriterSize(w, 8192),
	}
}

// WriteFrame replaces the whole screen with the lines of frame, top-left
// aligned. Each line erases its remainder and everything below the frame is
// cleared, so a shrinking frame leaves nothing behind.
func (cw *ChunkWriter) WriteFrame(frame string) {
	cw.buf.WriteString("\033[H")
	for i, line := range strings.Split(frame, "\n") {
		if i > 0 {
			cw.buf.WriteString("\r\n") // Raw mode: no implicit carriage return
		}
		cw.buf.WriteString(line)
		cw.buf.WriteString("\033[K")
	}
	cw.buf.WriteString("\033[J")
}

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		if err := cw.bufw.Flush(); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// EnterAltScreen switches to the alternate screen buffer so the shell's
// scrollback survives the game.
func EnterAltScreen(w io.Writer) {
	fmt.Fprint(w, "\033[?1049h")
}

// ExitAltScreen restores the main screen buffer.
func ExitAltScreen(w io.Writer) {
	fmt.Fprint(w, "\033[?1049l")
}

// TerminalSizeRawWith returns actual terminal dimensions using the provided size function.
func TerminalSizeRawWith(sizeFunc TermSizeFunc) (width, height int, err error) {
	return sizeFunc()
}
