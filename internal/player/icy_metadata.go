package player

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// icyReader strips interleaved ICY metadata blocks from a stream body,
// passing only audio bytes through and publishing changed stream titles.
type icyReader struct {
	r         io.Reader
	metaInt   int
	remaining int
	lastTitle string
	titles    chan string
}

func newICYReader(r io.Reader, metaInt int) *icyReader {
	return &icyReader{
		r:         r,
		metaInt:   metaInt,
		remaining: metaInt,
		titles:    make(chan string, 1),
	}
}

// Titles delivers the latest changed title. Unread titles are replaced by
// newer ones rather than blocking the audio path.
func (ir *icyReader) Titles() <-chan string {
	return ir.titles
}

func (ir *icyReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if ir.remaining == 0 {
		if err := ir.readMetadata(); err != nil {
			return 0, err
		}
		ir.remaining = ir.metaInt
	}
	if len(p) > ir.remaining {
		p = p[:ir.remaining]
	}
	n, err := ir.r.Read(p)
	ir.remaining -= n
	return n, err
}

func (ir *icyReader) readMetadata() error {
	var metaLen [1]byte
	if _, err := io.ReadFull(ir.r, metaLen[:]); err != nil {
		return err
	}

	size := int(metaLen[0]) * 16
	if size == 0 {
		return nil
	}

	block := make([]byte, size)
	if _, err := io.ReadFull(ir.r, block); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}

	title := extractICYStreamTitle(block)
	if title == "" || title == ir.lastTitle {
		return nil
	}
	ir.lastTitle = title
	ir.publish(title)
	return nil
}

func (ir *icyReader) publish(title string) {
	for {
		select {
		case ir.titles <- title:
			return
		default:
		}
		select {
		case <-ir.titles:
		default:
		}
	}
}

func parseICYMetaInt(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("icy metadata not available")
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid icy-metaint")
	}
	return n, nil
}

func extractICYStreamTitle(block []byte) string {
	raw := strings.TrimRight(string(block), "\x00")
	if raw == "" {
		return ""
	}

	lower := strings.ToLower(raw)
	const marker = "streamtitle='"
	start := strings.Index(lower, marker)
	if start < 0 {
		return ""
	}
	start += len(marker)

	end := strings.Index(raw[start:], "';")
	if end < 0 {
		end = strings.LastIndex(raw[start:], "'")
	}
	if end < 0 {
		return ""
	}

	return strings.TrimSpace(raw[start : start+end])
}
