package inbox

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/starford/pnx/internal/models"
	"github.com/starford/pnx/internal/parser"
)

// captureTypes covers formats phones and recorders commonly produce that
// the platform MIME table may not know.
var captureTypes = map[string]string{
	".md":   "text/markdown",
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".heic": "image/heic",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
}

func mimeType(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	mt := captureTypes[ext]
	if mt == "" {
		mt = mime.TypeByExtension(ext)
	}
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	mt, _, _ = strings.Cut(mt, ";")
	return strings.TrimSpace(mt)
}

func mediaType(mt string) models.MediaType {
	switch {
	case strings.HasPrefix(mt, "image/"):
		return models.MediaPhoto
	case strings.HasPrefix(mt, "video/"):
		return models.MediaVideo
	case strings.HasPrefix(mt, "audio/"):
		return models.MediaAudio
	}
	return models.MediaFile
}

// titleFromName turns "bank_statement-march.pdf" into "bank statement march".
func titleFromName(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	return strings.Join(strings.Fields(stem), " ")
}

// describe builds the capture input for a dropped file. Text notes are
// parsed for a title, description and tags.
func describe(name, absPath string, data []byte) models.NewItem {
	mt := mimeType(name, data)
	in := models.NewItem{
		Title:     titleFromName(name),
		MediaType: mediaType(mt),
		FileName:  name,
		MimeType:  mt,
		SizeBytes: int64(len(data)),
		LocalURL:  "file://" + filepath.ToSlash(absPath),
	}
	if mt == "text/markdown" || mt == "text/plain" {
		res := parser.Parse(data)
		if res.Title != "" {
			in.Title = res.Title
		}
		in.Description = res.Description
		in.Tags = res.Tags
	}
	if in.Title == "" {
		in.Title = name
	}
	return in
}
