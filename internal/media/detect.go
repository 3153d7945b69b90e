package media

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

// Codec identifies the audio encoding of a stream.
type Codec string

const (
	CodecMP3     Codec = "mp3"
	CodecOgg     Codec = "ogg"
	CodecFLAC    Codec = "flac"
	CodecAAC     Codec = "aac"
	CodecUnknown Codec = ""
)

var contentTypes = map[string]Codec{
	"audio/mpeg":      CodecMP3,
	"audio/mp3":       CodecMP3,
	"audio/mpeg3":     CodecMP3,
	"audio/ogg":       CodecOgg,
	"application/ogg": CodecOgg,
	"audio/vorbis":    CodecOgg,
	"audio/flac":      CodecFLAC,
	"audio/x-flac":    CodecFLAC,
	"audio/aac":       CodecAAC,
	"audio/aacp":      CodecAAC,
	"audio/x-aac":     CodecAAC,
	"audio/mp4":       CodecAAC,
}

var audioExts = map[string]Codec{
	".mp3":  CodecMP3,
	".ogg":  CodecOgg,
	".oga":  CodecOgg,
	".flac": CodecFLAC,
	".aac":  CodecAAC,
	".m4a":  CodecAAC,
}

var playlistExts = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".pls":  true,
}

var playlistTypes = map[string]string{
	"audio/x-scpls":         ".pls",
	"audio/scpls":           ".pls",
	"audio/x-mpegurl":       ".m3u",
	"audio/mpegurl":         ".m3u",
	"application/x-mpegurl": ".m3u",
}

// DetectCodec picks a codec from the response Content-Type, falling back to
// the URL path extension. Unknown streams are left for the ffmpeg decoder.
func DetectCodec(contentType, rawURL string) Codec {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if c, ok := contentTypes[strings.ToLower(mt)]; ok {
			return c
		}
	}
	return audioExts[urlExt(rawURL)]
}

// IsPlaylist reports whether rawURL, or a response with contentType, is a
// .pls or .m3u playlist rather than an audio stream.
func IsPlaylist(rawURL, contentType string) bool {
	return playlistKind(rawURL, contentType) != ""
}

// IsPlaylistExt returns true if the extension is a supported playlist format.
func IsPlaylistExt(ext string) bool {
	return playlistExts[strings.ToLower(ext)]
}

func playlistKind(rawURL, contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if kind, ok := playlistTypes[strings.ToLower(mt)]; ok {
			return kind
		}
	}
	if ext := urlExt(rawURL); IsPlaylistExt(ext) {
		if ext == ".m3u8" {
			return ".m3u"
		}
		return ext
	}
	return ""
}

func urlExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}
