package parser

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// 块级元素结束时补一个空格，避免相邻段落的单词粘连
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true, "table": true, "section": true,
	"article": true, "header": true, "footer": true, "dd": true, "dt": true,
	"pre": true, "blockquote": true, "hr": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "head": true,
}

// HTMLExtractor 使用 goquery 将 HTML 简历或岗位页面转为纯文本
type HTMLExtractor struct {
	selector string
	logger   *log.Logger
}

// HTMLOption HTML提取器配置选项
type HTMLOption func(*HTMLExtractor)

// WithSelector 只提取匹配选择器的内容，例如岗位页面的 ".job-description"
func WithSelector(selector string) HTMLOption {
	return func(e *HTMLExtractor) {
		e.selector = selector
	}
}

// WithHTMLLogger 配置自定义日志记录器
func WithHTMLLogger(logger *log.Logger) HTMLOption {
	return func(e *HTMLExtractor) {
		e.logger = logger
	}
}

var _ TextExtractor = (*HTMLExtractor)(nil)

// NewHTMLExtractor 创建HTML提取器
func NewHTMLExtractor(options ...HTMLOption) *HTMLExtractor {
	e := &HTMLExtractor{
		selector: "body",
		logger:   log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// ExtractTextFromBytes 从字节数组提取文本
func (e *HTMLExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	return e.ExtractTextFromReader(ctx, bytes.NewReader(data), uri)
}

// ExtractTextFromReader 从io.Reader提取文本
func (e *HTMLExtractor) ExtractTextFromReader(_ context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return "", nil, newParseError(uri, FormatHTML, err)
	}

	selection := doc.Find(e.selector)
	if selection.Length() == 0 {
		// 选择器未命中时退回整页正文
		selection = doc.Find("body")
	}

	var sb strings.Builder
	selection.Each(func(_ int, s *goquery.Selection) {
		collectText(s, &sb)
		sb.WriteByte(' ')
	})
	text := strings.Join(strings.Fields(sb.String()), " ")

	metadata := baseMetadata(uri, FormatHTML)
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		metadata["title"] = title
	}
	metadata["text_length"] = len(text)
	metadata["processing_duration_ms"] = time.Since(startTime).Milliseconds()

	e.logger.Printf("HTML提取完成: %s, %d 个字符", uri, len(text))
	return text, metadata, nil
}

func collectText(sel *goquery.Selection, sb *strings.Builder) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			sb.WriteString(s.Text())
		case skippedElements[name]:
		default:
			collectText(s, sb)
			if blockElements[name] {
				sb.WriteByte(' ')
			}
		}
	})
}
