package keyword

import (
	"strconv"
)

// Score 计算岗位关键词被简历覆盖的百分比，保留两位小数。
// 岗位关键词为空时返回 0。分母只有岗位关键词数，与简历长度无关。
func Score(resumeWords, jobWords KeywordSet) float64 {
	if jobWords.IsEmpty() {
		return 0
	}
	matchCount := resumeWords.Intersect(jobWords).Len()
	return round2(float64(matchCount) / float64(jobWords.Len()) * 100)
}

// round2 对精确二进制值做正确舍入（平局取偶），与 Python round(x, 2) 一致
func round2(x float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return v
}
