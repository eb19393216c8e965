package exec

import (
	"bytes"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// StreamingWriter prefixes and styles each complete line written to it.
// A trailing partial line is held until the next newline or Flush.
type StreamingWriter struct {
	mu     sync.Mutex
	prefix string
	style  lipgloss.Style
	writer io.Writer
	buffer []byte
}

// NewStreamingWriter creates a formatted output writer
func NewStreamingWriter(writer io.Writer, prefix string, color lipgloss.Color) *StreamingWriter {
	return &StreamingWriter{
		prefix: prefix,
		style:  lipgloss.NewStyle().Foreground(color),
		writer: writer,
	}
}

// Write formats and writes output line by line
func (s *StreamingWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer = append(s.buffer, p...)
	for {
		i := bytes.IndexByte(s.buffer, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSuffix(s.buffer[:i], []byte("\r"))
		if err := s.writeLine(string(line)); err != nil {
			return 0, err
		}
		s.buffer = s.buffer[i+1:]
	}
	return len(p), nil
}

// Flush writes any remaining buffered content
func (s *StreamingWriter) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buffer) == 0 {
		return nil
	}
	err := s.writeLine(string(s.buffer))
	s.buffer = s.buffer[:0]
	return err
}

func (s *StreamingWriter) writeLine(line string) error {
	_, err := io.WriteString(s.writer, s.style.Render(s.prefix+line)+"\n")
	return err
}
