package domain

import (
	"path/filepath"
	"strings"
)

// ContentCategory is a coarse classification of a file used for previews
type ContentCategory string

const (
	CategoryImage ContentCategory = "image"
	CategoryPDF   ContentCategory = "pdf"
	CategoryText  ContentCategory = "text"
	CategoryVideo ContentCategory = "video"
	CategoryAudio ContentCategory = "audio"
	CategoryOther ContentCategory = "other"
)

// ContentType is the mime type and category an extension maps to
type ContentType struct {
	MimeType string
	Category ContentCategory
}

const defaultMimeType = "application/octet-stream"

// AllowedExtensions maps every accepted file extension to its content type
var AllowedExtensions = map[string]ContentType{
	// images
	".jpg":  {"image/jpeg", CategoryImage},
	".jpeg": {"image/jpeg", CategoryImage},
	".png":  {"image/png", CategoryImage},
	".gif":  {"image/gif", CategoryImage},
	".bmp":  {"image/bmp", CategoryImage},
	".tiff": {"image/tiff", CategoryImage},
	".webp": {"image/webp", CategoryImage},
	".svg":  {"image/svg+xml", CategoryImage},
	".ico":  {"image/x-icon", CategoryImage},

	".pdf": {"application/pdf", CategoryPDF},

	// text
	".txt":  {"text/plain; charset=utf-8", CategoryText},
	".csv":  {"text/csv; charset=utf-8", CategoryText},
	".json": {"application/json", CategoryText},
	".xml":  {"application/xml", CategoryText},
	".html": {"text/html; charset=utf-8", CategoryText},
	".css":  {"text/css; charset=utf-8", CategoryText},
	".js":   {"text/javascript; charset=utf-8", CategoryText},
	".py":   {"text/x-python; charset=utf-8", CategoryText},
	".java": {"text/x-java; charset=utf-8", CategoryText},
	".cpp":  {"text/x-c++src; charset=utf-8", CategoryText},
	".c":    {"text/x-csrc; charset=utf-8", CategoryText},
	".h":    {"text/x-chdr; charset=utf-8", CategoryText},
	".php":  {"text/x-php; charset=utf-8", CategoryText},
	".sql":  {"application/sql", CategoryText},
	".md":   {"text/markdown; charset=utf-8", CategoryText},
	".rtf":  {"application/rtf", CategoryText},

	// video
	".mp4":  {"video/mp4", CategoryVideo},
	".avi":  {"video/x-msvideo", CategoryVideo},
	".mov":  {"video/quicktime", CategoryVideo},
	".wmv":  {"video/x-ms-wmv", CategoryVideo},
	".flv":  {"video/x-flv", CategoryVideo},
	".mkv":  {"video/x-matroska", CategoryVideo},
	".webm": {"video/webm", CategoryVideo},
	".m4v":  {"video/x-m4v", CategoryVideo},
	".3gp":  {"video/3gpp", CategoryVideo},

	// audio
	".mp3":  {"audio/mpeg", CategoryAudio},
	".wav":  {"audio/wav", CategoryAudio},
	".ogg":  {"audio/ogg", CategoryAudio},
	".aac":  {"audio/aac", CategoryAudio},
	".flac": {"audio/flac", CategoryAudio},
	".m4a":  {"audio/mp4", CategoryAudio},
	".wma":  {"audio/x-ms-wma", CategoryAudio},

	// documents, archives and binaries
	".doc":   {"application/msword", CategoryOther},
	".docx":  {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", CategoryOther},
	".xls":   {"application/vnd.ms-excel", CategoryOther},
	".xlsx":  {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", CategoryOther},
	".ppt":   {"application/vnd.ms-powerpoint", CategoryOther},
	".pptx":  {"application/vnd.openxmlformats-officedocument.presentationml.presentation", CategoryOther},
	".odt":   {"application/vnd.oasis.opendocument.text", CategoryOther},
	".ods":   {"application/vnd.oasis.opendocument.spreadsheet", CategoryOther},
	".odp":   {"application/vnd.oasis.opendocument.presentation", CategoryOther},
	".epub":  {"application/epub+zip", CategoryOther},
	".mobi":  {"application/x-mobipocket-ebook", CategoryOther},
	".zip":   {"application/zip", CategoryOther},
	".rar":   {"application/vnd.rar", CategoryOther},
	".7z":    {"application/x-7z-compressed", CategoryOther},
	".tar":   {"application/x-tar", CategoryOther},
	".gz":    {"application/gzip", CategoryOther},
	".xz":    {"application/x-xz", CategoryOther},
	".bz2":   {"application/x-bzip2", CategoryOther},
	".psd":   {"image/vnd.adobe.photoshop", CategoryOther},
	".ai":    {"application/postscript", CategoryOther},
	".eps":   {"application/postscript", CategoryOther},
	".dwg":   {defaultMimeType, CategoryOther},
	".dxf":   {defaultMimeType, CategoryOther},
	".stl":   {"model/stl", CategoryOther},
	".obj":   {defaultMimeType, CategoryOther},
	".fbx":   {defaultMimeType, CategoryOther},
	".blend": {defaultMimeType, CategoryOther},
	".iso":   {defaultMimeType, CategoryOther},
	".dmg":   {defaultMimeType, CategoryOther},
	".exe":   {defaultMimeType, CategoryOther},
	".msi":   {defaultMimeType, CategoryOther},
	".deb":   {"application/vnd.debian.binary-package", CategoryOther},
	".rpm":   {defaultMimeType, CategoryOther},
}

// LookupContentType returns the content type for filename's extension
func LookupContentType(filename string) (ContentType, bool) {
	ct, ok := AllowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}

// ContentTypeOf returns the content type for filename, falling back to an opaque binary type
func ContentTypeOf(filename string) ContentType {
	if ct, ok := LookupContentType(filename); ok {
		return ct
	}
	return ContentType{MimeType: defaultMimeType, Category: CategoryOther}
}
