package keyword

import (
	"sort"
	"strings"
)

// KeywordSet 归一化后的关键词集合，构造后不可修改
type KeywordSet struct {
	words map[string]struct{}
}

// NewKeywordSet 由给定词构造集合，空字符串会被忽略，重复词只保留一次
func NewKeywordSet(words ...string) KeywordSet {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		m[w] = struct{}{}
	}
	return KeywordSet{words: m}
}

// Len 返回集合大小
func (s KeywordSet) Len() int {
	return len(s.words)
}

// IsEmpty 集合是否为空
func (s KeywordSet) IsEmpty() bool {
	return len(s.words) == 0
}

// Contains 判断词是否在集合中
func (s KeywordSet) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Words 返回按字典序排序的词列表（副本）
func (s KeywordSet) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Intersect 返回两个集合的交集
func (s KeywordSet) Intersect(other KeywordSet) KeywordSet {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	m := make(map[string]struct{}, small.Len())
	for w := range small.words {
		if large.Contains(w) {
			m[w] = struct{}{}
		}
	}
	return KeywordSet{words: m}
}

// Difference 返回在 s 中但不在 other 中的词
func (s KeywordSet) Difference(other KeywordSet) KeywordSet {
	m := make(map[string]struct{})
	for w := range s.words {
		if !other.Contains(w) {
			m[w] = struct{}{}
		}
	}
	return KeywordSet{words: m}
}

// Equal 判断两个集合元素是否完全相同
func (s KeywordSet) Equal(other KeywordSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for w := range s.words {
		if !other.Contains(w) {
			return false
		}
	}
	return true
}

// String 以空格连接排序后的词，重新归一化该字符串会得到相同的集合
func (s KeywordSet) String() string {
	return strings.Join(s.Words(), " ")
}
