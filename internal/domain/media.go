package domain

import (
	"net/url"
	"path"
	"strings"
)

var extensionTypes = map[string]MediaType{
	".jpg": MediaImage, ".jpeg": MediaImage, ".png": MediaImage, ".gif": MediaImage,
	".webp": MediaImage, ".svg": MediaImage, ".bmp": MediaImage, ".avif": MediaImage,
	".mp4": MediaVideo, ".webm": MediaVideo, ".mov": MediaVideo, ".avi": MediaVideo, ".mkv": MediaVideo,
	".mp3": MediaAudio, ".wav": MediaAudio, ".ogg": MediaAudio, ".m4a": MediaAudio, ".flac": MediaAudio,
	".pdf": MediaDocument, ".doc": MediaDocument, ".docx": MediaDocument, ".xls": MediaDocument,
	".xlsx": MediaDocument, ".ppt": MediaDocument, ".pptx": MediaDocument, ".txt": MediaDocument,
	".csv": MediaDocument,
}

// ClassifyMediaType decides the media type of an item. Precedence:
//  1. the server's explicit type, when it names a known type
//  2. the MIME type prefix
//  3. the file extension of the name, then of the URL path
//  4. MediaFile
func ClassifyMediaType(item MediaItem) MediaType {
	if t, err := ParseMediaType(strings.ToLower(strings.TrimSpace(item.Type))); err == nil {
		return t
	}
	if t, ok := mimeMediaType(item.MimeType); ok {
		return t
	}
	// Some servers put the MIME type in the type field.
	if t, ok := mimeMediaType(item.Type); ok {
		return t
	}
	for _, name := range []string{item.Name, urlPath(item.URL), item.Path} {
		if t, ok := extensionTypes[strings.ToLower(path.Ext(name))]; ok {
			return t
		}
	}
	return MediaFile
}

func mimeMediaType(mime string) (MediaType, bool) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case mime == "":
		return "", false
	case strings.HasPrefix(mime, "image/"):
		return MediaImage, true
	case strings.HasPrefix(mime, "video/"):
		return MediaVideo, true
	case strings.HasPrefix(mime, "audio/"):
		return MediaAudio, true
	case strings.HasPrefix(mime, "text/"),
		mime == "application/pdf",
		strings.HasPrefix(mime, "application/msword"),
		strings.HasPrefix(mime, "application/vnd.ms-"),
		strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument"):
		return MediaDocument, true
	}
	return "", false
}

func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}

// ResolveURL makes a media reference absolute. Absolute URLs pass through;
// relative paths are joined to base with exactly one slash between them.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && (u.IsAbs() || strings.HasPrefix(ref, "//")) {
		return ref
	}
	if base == "" {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}

// FolderOf returns the folder part of an item's URL path, without the file
// name. Items at the root report "/".
func FolderOf(item MediaItem) string {
	p := urlPath(item.URL)
	if p == "" {
		p = item.Path
	}
	return path.Dir("/" + strings.TrimLeft(p, "/"))
}
