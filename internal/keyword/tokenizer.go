package keyword

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Tokenizer 将文本切分为词元
type Tokenizer interface {
	Tokenize(text string) []string
}

// treebankSplits Penn Treebank 分词器对粘连词的拆分规则。
// 去除 ASCII 标点后仍然生效的只剩下这几条（'tis、d'ye 之类依赖撇号的规则已不可能命中）。
var treebankSplits = map[string][2]string{
	"cannot": {"can", "not"},
	"gimme":  {"gim", "me"},
	"gonna":  {"gon", "na"},
	"gotta":  {"got", "ta"},
	"lemme":  {"lem", "me"},
	"wanna":  {"wan", "na"},
}

// WordTokenizer 基于 Unicode UAX#29 词边界的英文分词器
type WordTokenizer struct {
	// splitContractions 是否按 Treebank 规则拆分粘连词
	splitContractions bool
}

// NewWordTokenizer 创建默认分词器（开启粘连词拆分）
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{splitContractions: true}
}

// NewPlainWordTokenizer 创建不拆分粘连词的分词器
func NewPlainWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

var _ Tokenizer = (*WordTokenizer)(nil)

// Tokenize 按词边界切分，丢弃空白和纯符号片段
func (t *WordTokenizer) Tokenize(text string) []string {
	var tokens []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var segment string
		segment, rest, state = uniseg.FirstWordInString(rest, state)
		if !hasWordRune(segment) {
			continue
		}
		if t.splitContractions {
			if parts, ok := treebankSplits[segment]; ok {
				tokens = append(tokens, parts[0], parts[1])
				continue
			}
		}
		tokens = append(tokens, segment)
	}
	return tokens
}

// hasWordRune 片段中至少包含一个字母或数字
func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
