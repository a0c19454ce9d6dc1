package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"ats-filter-go/internal/constants"
	"ats-filter-go/internal/storage"
	"ats-filter-go/pkg/utils"
)

// JD 文本来源
const (
	JobSourceInline   = "inline"
	JobSourceCache    = "cache"
	JobSourceDatabase = "database"
	JobSourceURL      = "url"
	JobSourceURLCache = "url_cache"
)

// JobDescriptionInput 请求中携带的岗位描述，三者按 Text > JobID > URL 的顺序使用
type JobDescriptionInput struct {
	Text  string `json:"job_description,omitempty"`
	JobID string `json:"job_id,omitempty"`
	URL   string `json:"job_url,omitempty"`
}

// IsEmpty 三个来源都为空白时返回 true
func (in JobDescriptionInput) IsEmpty() bool {
	return strings.TrimSpace(in.Text) == "" &&
		strings.TrimSpace(in.JobID) == "" &&
		strings.TrimSpace(in.URL) == ""
}

// ResolvedJobDescription 解析后的岗位描述
type ResolvedJobDescription struct {
	Text   string
	Source string
	JobID  string
	URL    string
}

// JDProcessor 负责把岗位ID或URL解析为 JD 文本，并维护 Redis 缓存。
type JDProcessor struct {
	cache    JDTextCache
	store    JobStore
	fetcher  PageFetcher
	cacheTTL time.Duration
	logger   *log.Logger
}

var _ JobDescriptionResolver = (*JDProcessor)(nil)

// NewJDProcessor 创建一个新的 JDProcessor 实例。
// 不带任何选项时只接受请求中直接给出的 JD 文本。
func NewJDProcessor(options ...JDOption) *JDProcessor {
	p := &JDProcessor{
		cacheTTL: constants.JDCacheDuration,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Resolve 按 inline 文本、岗位ID（缓存后数据库）、URL（缓存后抓取）的顺序解析 JD。
// 岗位ID解析失败且提供了 URL 时继续尝试 URL。
func (p *JDProcessor) Resolve(ctx context.Context, input JobDescriptionInput) (ResolvedJobDescription, error) {
	requestID := RequestIDFromContext(ctx)

	if strings.TrimSpace(input.Text) != "" {
		return ResolvedJobDescription{Text: input.Text, Source: JobSourceInline}, nil
	}

	jobID := strings.TrimSpace(input.JobID)
	rawURL := strings.TrimSpace(input.URL)
	if jobID == "" && rawURL == "" {
		return ResolvedJobDescription{}, NewJobDescriptionError(requestID, ErrMissingJobDescription, "", nil)
	}

	var jobErr error
	if jobID != "" {
		resolved, err := p.resolveByJobID(ctx, requestID, jobID)
		if err == nil {
			return resolved, nil
		}
		if rawURL == "" {
			return ResolvedJobDescription{}, err
		}
		jobErr = err
		p.logger.Printf("按岗位ID %s 解析JD失败，改用URL: %v", jobID, err)
	}

	resolved, err := p.resolveByURL(ctx, requestID, rawURL)
	if err != nil && jobErr != nil {
		p.logger.Printf("岗位ID与URL均无法解析JD: %v", jobErr)
	}
	resolved.JobID = jobID
	return resolved, err
}

func (p *JDProcessor) resolveByJobID(ctx context.Context, requestID, jobID string) (ResolvedJobDescription, error) {
	if p.cache != nil {
		text, err := p.cache.GetCachedJDText(ctx, jobID)
		switch {
		case err == nil && strings.TrimSpace(text) != "":
			p.logger.Printf("从 Redis 缓存命中 JD 文本 for JobID: %s", jobID)
			return ResolvedJobDescription{Text: text, Source: JobSourceCache, JobID: jobID}, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			// 缓存读取失败不阻塞主流程
			p.logger.Printf("从 Redis 获取 JD 文本失败 for JobID: %s, Error: %v", jobID, err)
		}
	}

	if p.store == nil {
		return ResolvedJobDescription{}, NewJobDescriptionError(requestID, ErrJobLookupUnavailable, jobID, nil)
	}
	text, err := p.store.GetJobDescriptionText(ctx, jobID)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return ResolvedJobDescription{}, NewJobDescriptionError(requestID, ErrJobNotFound, jobID, err)
		}
		return ResolvedJobDescription{}, NewJobDescriptionError(requestID, ErrJobLookupUnavailable, jobID, err)
	}

	if p.cache != nil && strings.TrimSpace(text) != "" {
		if err := p.cache.SetCachedJDText(ctx, jobID, text, p.cacheTTL); err != nil {
			p.logger.Printf("将 JD 文本存入 Redis 失败 for JobID: %s: %v", jobID, err)
		}
	}
	return ResolvedJobDescription{Text: text, Source: JobSourceDatabase, JobID: jobID}, nil
}

func (p *JDProcessor) resolveByURL(ctx context.Context, requestID, rawURL string) (ResolvedJobDescription, error) {
	if p.fetcher == nil {
		return ResolvedJobDescription{}, NewJobDescriptionError(requestID, ErrURLFetchDisabled, rawURL, nil)
	}

	urlHash := utils.URLCacheKey(rawURL)
	if p.cache != nil {
		text, err := p.cache.GetCachedURLText(ctx, urlHash)
		switch {
		case err == nil && strings.TrimSpace(text) != "":
			p.logger.Printf("从 Redis 缓存命中 URL JD 文本: %s", rawURL)
			return ResolvedJobDescription{Text: text, Source: JobSourceURLCache, URL: rawURL}, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			p.logger.Printf("从 Redis 获取 URL JD 文本失败: %s, Error: %v", rawURL, err)
		}
	}

	text, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if errors.Is(err, ErrInvalidJobURL) {
			return ResolvedJobDescription{}, NewJobDescriptionError(requestID, ErrInvalidJobURL, rawURL, err)
		}
		return ResolvedJobDescription{}, NewJobDescriptionError(requestID, ErrJDFetchFailed, fmt.Sprintf("%s: %v", rawURL, err), err)
	}

	if p.cache != nil && strings.TrimSpace(text) != "" {
		if err := p.cache.SetCachedURLText(ctx, urlHash, text, p.cacheTTL); err != nil {
			p.logger.Printf("将 URL JD 文本存入 Redis 失败: %s: %v", rawURL, err)
		}
	}
	return ResolvedJobDescription{Text: text, Source: JobSourceURL, URL: rawURL}, nil
}
