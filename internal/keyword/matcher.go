package keyword

// Result 一次匹配评估的结果
type Result struct {
	Score              float64  `json:"score"`
	Verdict            Verdict  `json:"verdict"`
	MatchedKeywords    []string `json:"matched_keywords"`
	MissingKeywords    []string `json:"missing_keywords"`
	ResumeKeywordCount int      `json:"resume_keyword_count"`
	JobKeywordCount    int      `json:"job_keyword_count"`
}

// Matcher 组合归一化、打分与分级
type Matcher struct {
	normalizer *Normalizer
}

// NewMatcher 创建匹配器
func NewMatcher(normalizer *Normalizer) *Matcher {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Matcher{normalizer: normalizer}
}

// Normalize 归一化单段文本
func (m *Matcher) Normalize(text string) KeywordSet {
	return m.normalizer.Normalize(text)
}

// Evaluate 分别归一化简历和岗位描述，计算得分并给出结论
func (m *Matcher) Evaluate(resumeText, jobText string) Result {
	resumeWords := m.normalizer.Normalize(resumeText)
	jobWords := m.normalizer.Normalize(jobText)
	return Compare(resumeWords, jobWords)
}

// Compare 对两个已归一化的集合打分
func Compare(resumeWords, jobWords KeywordSet) Result {
	score := Score(resumeWords, jobWords)
	return Result{
		Score:              score,
		Verdict:            Classify(score),
		MatchedKeywords:    jobWords.Intersect(resumeWords).Words(),
		MissingKeywords:    jobWords.Difference(resumeWords).Words(),
		ResumeKeywordCount: resumeWords.Len(),
		JobKeywordCount:    jobWords.Len(),
	}
}
