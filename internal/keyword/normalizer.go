package keyword

import (
	"strings"
)

// asciiPunctuation 标准 ASCII 标点集合
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// StopWordChecker 停用词判定
type StopWordChecker interface {
	Contains(word string) bool
}

// noStopWords 空停用词表
type noStopWords struct{}

func (noStopWords) Contains(string) bool { return false }

// Normalizer 将原始文本转换为归一化关键词集合。
// 实例只读，可被多个请求并发使用。
type Normalizer struct {
	stopWords StopWordChecker
	tokenizer Tokenizer
}

// NormalizerOption Normalizer 的配置选项
type NormalizerOption func(*Normalizer)

// WithTokenizer 使用自定义分词器
func WithTokenizer(t Tokenizer) NormalizerOption {
	return func(n *Normalizer) {
		if t != nil {
			n.tokenizer = t
		}
	}
}

// NewNormalizer 创建归一化器，stopWords 为 nil 时不过滤任何词
func NewNormalizer(stopWords StopWordChecker, options ...NormalizerOption) *Normalizer {
	if stopWords == nil {
		stopWords = noStopWords{}
	}
	n := &Normalizer{
		stopWords: stopWords,
		tokenizer: NewWordTokenizer(),
	}
	for _, option := range options {
		option(n)
	}
	return n
}

// Normalize 小写化、去标点、分词、去停用词后收敛为集合。不会返回错误，退化输入得到空集合。
func (n *Normalizer) Normalize(text string) KeywordSet {
	if text == "" {
		return NewKeywordSet()
	}

	cleaned := StripPunctuation(strings.ToLower(text))

	words := make(map[string]struct{})
	for _, token := range n.tokenizer.Tokenize(cleaned) {
		if token == "" || n.stopWords.Contains(token) {
			continue
		}
		words[token] = struct{}{}
	}
	return KeywordSet{words: words}
}

// StripPunctuation 删除所有 ASCII 标点（拼接而不是替换为空格，"don't" -> "dont"）
func StripPunctuation(text string) string {
	if !strings.ContainsAny(text, asciiPunctuation) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x80 && strings.ContainsRune(asciiPunctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
