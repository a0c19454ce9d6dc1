package parser

import (
	"net/http"
	"path/filepath"
	"strings"
)

// Format 文档格式
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatHTML    Format = "html"
	FormatText    Format = "text"
	FormatOffice  Format = "office" // docx/doc/odt/rtf，只能交给 Tika
	FormatUnknown Format = "unknown"
)

var extensionFormats = map[string]Format{
	".pdf":  FormatPDF,
	".html": FormatHTML,
	".htm":  FormatHTML,
	".txt":  FormatText,
	".text": FormatText,
	".md":   FormatText,
	".docx": FormatOffice,
	".doc":  FormatOffice,
	".odt":  FormatOffice,
	".rtf":  FormatOffice,
}

// MIMEType 发送给 Tika 时使用的 Content-Type
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html"
	case FormatText:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// DetectFormat 先看扩展名，再嗅探内容
func DetectFormat(uri string, data []byte) Format {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(uri))]; ok {
		return f
	}
	if len(data) == 0 {
		return FormatUnknown
	}

	contentType := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return FormatPDF
	case strings.HasPrefix(contentType, "text/html"):
		return FormatHTML
	case strings.HasPrefix(contentType, "text/plain"):
		return FormatText
	default:
		return FormatUnknown
	}
}
