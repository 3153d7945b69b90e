package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxPlaylistBytes bounds how much of a playlist response is read.
const maxPlaylistBytes = 64 << 10

// maxPlaylistDepth bounds playlists that point at further playlists.
const maxPlaylistDepth = 3

// ErrEmptyPlaylist is returned when a playlist lists no stream.
var ErrEmptyPlaylist = errors.New("playlist has no entries")

// ResolveStream follows .pls/.m3u station URLs to the first stream they list.
// Other URLs are returned unchanged without a request.
func ResolveStream(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	current := rawURL
	for range maxPlaylistDepth {
		kind := playlistKind(current, "")
		if kind == "" {
			return current, nil
		}
		entries, err := fetchPlaylist(ctx, client, current, kind)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", fmt.Errorf("%s: %w", current, ErrEmptyPlaylist)
		}
		current = entries[0]
	}
	return "", fmt.Errorf("%s: playlists nested too deeply", rawURL)
}

func fetchPlaylist(ctx context.Context, client *http.Client, rawURL, kind string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building playlist request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching playlist: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching playlist: unexpected status %s", resp.Status)
	}
	if k := playlistKind("", resp.Header.Get("Content-Type")); k != "" {
		kind = k
	}
	return ParsePlaylist(io.LimitReader(resp.Body, maxPlaylistBytes), kind, rawURL), nil
}

// ParsePlaylist parses a .pls or .m3u body. Relative entries are resolved
// against base.
func ParsePlaylist(r io.Reader, kind, base string) []string {
	scanner := bufio.NewScanner(r)
	baseURL, _ := url.Parse(base)
	switch strings.ToLower(kind) {
	case ".pls":
		return parsePLS(scanner, baseURL)
	default:
		return parseM3U(scanner, baseURL)
	}
}

func parseM3U(scanner *bufio.Scanner, base *url.URL) []string {
	entries := make([]string, 0)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if e := resolveEntry(line, base); e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

func parsePLS(scanner *bufio.Scanner, base *url.URL) []string {
	entries := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if val == "" || !isPLSFileKey(key) {
			continue
		}

		if e := resolveEntry(val, base); e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

func isPLSFileKey(key string) bool {
	if len(key) < len("File") || !strings.EqualFold(key[:len("File")], "File") {
		return false
	}
	rest := key[len("File"):]
	if rest == "" {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return true
}

func resolveEntry(raw string, base *url.URL) string {
	raw = strings.Trim(raw, `"`)
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return ""
		}
		return u.String()
	}
	if base == nil || !base.IsAbs() {
		return ""
	}
	return base.ResolveReference(u).String()
}
