package testutil

import (
	"fmt"
	"io"
	"strings"
)

// Frame builds a wire frame for a raw JSON payload
func Frame(payload string) string {
	return "data: " + payload + "\n\n"
}

// StatusFrame builds a status event frame
func StatusFrame(message string) string {
	return Frame(fmt.Sprintf(`{"type": "status", "message": %q}`, message))
}

// ChunkFrame builds a chunk event frame
func ChunkFrame(content string) string {
	return Frame(fmt.Sprintf(`{"type": "chunk", "content": %q}`, content))
}

// SourcesFrame builds a sources event frame from raw JSON array contents
func SourcesFrame(sourcesJSON string) string {
	return Frame(fmt.Sprintf(`{"type": "sources", "sources": %s}`, sourcesJSON))
}

// DoneFrame builds a done event frame
func DoneFrame() string {
	return Frame(`{"type": "done"}`)
}

// ErrorFrame builds an error event frame
func ErrorFrame(message string) string {
	return Frame(fmt.Sprintf(`{"type": "error", "message": %q}`, message))
}

// ChunkReader yields at most n bytes per Read call, exercising payloads
// split across reads
type ChunkReader struct {
	r io.Reader
	n int
}

// NewChunkReader wraps data in a reader that returns n bytes at a time
func NewChunkReader(data string, n int) *ChunkReader {
	return &ChunkReader{r: strings.NewReader(data), n: n}
}

func (c *ChunkReader) Read(p []byte) (int, error) {
	if len(p) > c.n {
		p = p[:c.n]
	}
	return c.r.Read(p)
}
