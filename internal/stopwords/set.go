package stopwords

import (
	"bufio"
	"sort"
	"strings"
)

// Set 停用词集合，构造后只读
type Set struct {
	language string
	words    map[string]struct{}
}

// NewSet 构造停用词集合，词会被小写化并去除首尾空白，空行忽略
func NewSet(language string, words []string) *Set {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		m[w] = struct{}{}
	}
	return &Set{language: language, words: m}
}

// Contains 判断是否为停用词
func (s *Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[word]
	return ok
}

// Len 停用词数量
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Language 停用词表对应的语言
func (s *Set) Language() string {
	if s == nil {
		return ""
	}
	return s.language
}

// Words 排序后的停用词列表
func (s *Set) Words() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// parseList 解析每行一个词的列表，'#' 开头的行为注释
func parseList(content string) []string {
	var words []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}
