package player

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseICYMetaInt(t *testing.T) {
	got, err := parseICYMetaInt(" 16000 ")
	if err != nil {
		t.Fatalf("parseICYMetaInt returned error: %v", err)
	}
	if got != 16000 {
		t.Fatalf("expected 16000, got %d", got)
	}
}

func TestParseICYMetaIntRejectsMissingValue(t *testing.T) {
	if _, err := parseICYMetaInt(""); err == nil {
		t.Fatal("expected error for missing icy-metaint")
	}
}

func TestExtractICYStreamTitle(t *testing.T) {
	block := []byte("StreamTitle='Artist - Song';StreamUrl='';")
	got := extractICYStreamTitle(block)
	if got != "Artist - Song" {
		t.Fatalf("expected title, got %q", got)
	}
}

func TestExtractICYStreamTitleTrimsPadding(t *testing.T) {
	block := append([]byte("StreamTitle='Artist - Song';"), 0, 0, 0)
	got := extractICYStreamTitle(block)
	if got != "Artist - Song" {
		t.Fatalf("expected trimmed title, got %q", got)
	}
}

func TestExtractICYStreamTitleIgnoresMissingValue(t *testing.T) {
	block := []byte("StreamUrl='https://example.com';")
	if got := extractICYStreamTitle(block); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

func TestExtractICYStreamTitleIgnoresEmptyValue(t *testing.T) {
	block := []byte("StreamTitle='';")
	if got := extractICYStreamTitle(block); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

func TestICYReaderStripsMetadata(t *testing.T) {
	const metaInt = 4

	var stream bytes.Buffer
	for i, title := range []string{"First Title", "First Title", "Second Title"} {
		stream.WriteString(fmt.Sprintf("aud%d", i))
		block := padICYMetadata(fmt.Sprintf("StreamTitle='%s';", title))
		stream.WriteByte(byte(len(block) / 16))
		stream.WriteString(block)
	}
	stream.WriteString("tail")
	stream.WriteByte(0)

	ir := newICYReader(&stream, metaInt)
	audio, err := io.ReadAll(ir)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if string(audio) != "aud0aud1aud2tail" {
		t.Fatalf("expected audio only, got %q", audio)
	}

	// Only the latest changed title is kept.
	if got := waitForICYTitle(t, ir.Titles()); got != "Second Title" {
		t.Fatalf("expected latest title, got %q", got)
	}
}

func TestICYReaderEmitsChangedTitles(t *testing.T) {
	const metaInt = 4

	titleBlocks := []string{
		padICYMetadata("StreamTitle='First Title';"),
		padICYMetadata("StreamTitle='First Title';"),
		padICYMetadata("StreamTitle='Second Title';"),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Icy-MetaData"); got != "1" {
			t.Errorf("expected Icy-MetaData header, got %q", got)
		}
		w.Header().Set("icy-metaint", fmt.Sprintf("%d", metaInt))
		flusher, _ := w.(http.Flusher)
		for _, block := range titleBlocks {
			if _, err := w.Write([]byte("abcd")); err != nil {
				return
			}
			if _, err := w.Write([]byte{byte(len(block) / 16)}); err != nil {
				return
			}
			if _, err := w.Write([]byte(block)); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Icy-MetaData", "1")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	metaIntHeader, err := parseICYMetaInt(resp.Header.Get("icy-metaint"))
	if err != nil {
		t.Fatalf("parseICYMetaInt returned error: %v", err)
	}
	ir := newICYReader(resp.Body, metaIntHeader)

	buf := make([]byte, metaInt)
	if _, err := io.ReadFull(ir, buf); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ReadFull(ir, buf); err != nil {
		t.Fatal(err)
	}
	first := waitForICYTitle(t, ir.Titles())
	if first != "First Title" {
		t.Fatalf("expected first title, got %q", first)
	}

	if _, err := io.ReadFull(ir, buf); err != nil {
		t.Fatal(err)
	}
	if _, err := ir.Read(buf); err != io.EOF {
		t.Fatalf("expected EOF after last block, got %v", err)
	}
	second := waitForICYTitle(t, ir.Titles())
	if second != "Second Title" {
		t.Fatalf("expected second title, got %q", second)
	}
}

func TestICYReaderTruncatedMetadata(t *testing.T) {
	stream := bytes.NewReader([]byte("abcd\x02StreamTitle"))
	ir := newICYReader(stream, 4)
	_, err := io.ReadAll(ir)
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func waitForICYTitle(t *testing.T, updates <-chan string) string {
	t.Helper()
	select {
	case title, ok := <-updates:
		if !ok {
			t.Fatal("updates channel closed unexpectedly")
		}
		return title
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for title update")
		return ""
	}
}

func padICYMetadata(value string) string {
	if rem := len(value) % 16; rem != 0 {
		value += strings.Repeat("\x00", 16-rem)
	}
	return value
}
