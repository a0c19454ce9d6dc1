package keyword

// Verdict 匹配结论
type Verdict string

const (
	VerdictHighlyRelevant   Verdict = "highly relevant"
	VerdictSomewhatRelevant Verdict = "somewhat relevant, consider optimizing"
	VerdictNeedsImprovement Verdict = "needs significant improvement"
)

// Level 结论的展示级别，供渲染层着色
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const (
	highlyRelevantThreshold   = 80.0
	somewhatRelevantThreshold = 50.0
)

// Classify 按固定阈值映射结论：>80 高度相关，(50,80] 部分相关，<=50 需要大幅改进
func Classify(score float64) Verdict {
	switch {
	case score > highlyRelevantThreshold:
		return VerdictHighlyRelevant
	case score > somewhatRelevantThreshold:
		return VerdictSomewhatRelevant
	default:
		return VerdictNeedsImprovement
	}
}

// Level 返回结论对应的展示级别
func (v Verdict) Level() Level {
	switch v {
	case VerdictHighlyRelevant:
		return LevelSuccess
	case VerdictSomewhatRelevant:
		return LevelWarning
	default:
		return LevelError
	}
}

// Message 面向用户的提示语
func (v Verdict) Message() string {
	switch v {
	case VerdictHighlyRelevant:
		return "Your resume is highly relevant for this job!"
	case VerdictSomewhatRelevant:
		return "Your resume is somewhat relevant. Consider optimizing it."
	default:
		return "Your resume needs significant improvements to match the job description."
	}
}

func (v Verdict) String() string {
	return string(v)
}
