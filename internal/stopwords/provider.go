package stopwords

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ats-filter-go/internal/logger"
)

// DefaultLanguage 唯一内置支持的语言
const DefaultLanguage = "english"

var (
	// ErrUnsupportedLanguage 不支持的语言
	ErrUnsupportedLanguage = errors.New("不支持的停用词语言")
	// ErrEmptyStopWordList 来源返回了空列表
	ErrEmptyStopWordList = errors.New("停用词列表为空")
)

//go:embed english.txt
var englishList string

// Provider 停用词提供者
type Provider interface {
	StopWords(ctx context.Context, language string) (*Set, error)
}

// Source 外部停用词来源（Redis、MySQL 等）
type Source interface {
	LoadStopWords(ctx context.Context, language string) ([]string, error)
}

// BuiltinWords 返回内置的英文停用词（NLTK english 列表）
func BuiltinWords(language string) ([]string, error) {
	if normalizeLanguage(language) != DefaultLanguage {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	return parseList(englishList), nil
}

// Builtin 内置停用词提供者
type Builtin struct{}

var _ Provider = Builtin{}

// StopWords 实现 Provider
func (Builtin) StopWords(_ context.Context, language string) (*Set, error) {
	words, err := BuiltinWords(language)
	if err != nil {
		return nil, err
	}
	return NewSet(DefaultLanguage, words), nil
}

// FileProvider 从本地文件读取停用词，每行一个词
type FileProvider struct {
	Path string
}

var _ Provider = (*FileProvider)(nil)

// NewFileProvider 创建文件停用词提供者
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// StopWords 实现 Provider，文件本身即代表所配置的语言
func (p *FileProvider) StopWords(_ context.Context, language string) (*Set, error) {
	if p.Path == "" {
		return nil, fmt.Errorf("停用词文件路径不能为空")
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("读取停用词文件 %s 失败: %w", p.Path, err)
	}
	words := parseList(string(data))
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyStopWordList, p.Path)
	}
	return NewSet(normalizeLanguage(language), words), nil
}

// SourceProvider 将 Source 适配为 Provider
type SourceProvider struct {
	name   string
	source Source
}

var _ Provider = (*SourceProvider)(nil)

// NewSourceProvider 创建基于外部来源的提供者，name 仅用于日志和错误信息
func NewSourceProvider(name string, source Source) *SourceProvider {
	return &SourceProvider{name: name, source: source}
}

// StopWords 实现 Provider
func (p *SourceProvider) StopWords(ctx context.Context, language string) (*Set, error) {
	if p.source == nil {
		return nil, fmt.Errorf("停用词来源 %s 未初始化", p.name)
	}
	lang := normalizeLanguage(language)
	words, err := p.source.LoadStopWords(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("从%s加载停用词失败: %w", p.name, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s(%s)", ErrEmptyStopWordList, p.name, lang)
	}
	return NewSet(lang, words), nil
}

// fallbackProvider 主提供者失败时回退到备用提供者
type fallbackProvider struct {
	primary   Provider
	secondary Provider
}

// Fallback 组合两个提供者
func Fallback(primary, secondary Provider) Provider {
	return &fallbackProvider{primary: primary, secondary: secondary}
}

func (f *fallbackProvider) StopWords(ctx context.Context, language string) (*Set, error) {
	set, err := f.primary.StopWords(ctx, language)
	if err == nil && set.Len() > 0 {
		return set, nil
	}
	logger.Warn().
		Err(err).
		Str("language", language).
		Msg("主停用词来源不可用，回退到备用来源")
	return f.secondary.StopWords(ctx, language)
}

// Load 在进程启动时一次性加载停用词表
func Load(ctx context.Context, provider Provider, language string) (*Set, error) {
	if provider == nil {
		provider = Builtin{}
	}
	if language == "" {
		language = DefaultLanguage
	}

	startTime := time.Now()
	set, err := provider.StopWords(ctx, language)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("language", set.Language()).
		Int("count", set.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("停用词表加载完成")
	return set, nil
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	switch language {
	case "", "en", "english":
		return DefaultLanguage
	default:
		return language
	}
}
