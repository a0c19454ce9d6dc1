package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPage = `<!DOCTYPE html>
<html>
<head><title>Backend Engineer</title><style>.x{color:red}</style></head>
<body>
  <nav>Home Jobs</nav>
  <div class="job-description">
    <h1>Backend Engineer</h1>
    <p>Looking for a <b>Python</b> developer</p><p>with Docker experience</p>
    <script>var tracking = "ignored";</script>
  </div>
</body>
</html>`

func TestHTMLExtractor_Body(t *testing.T) {
	text, metadata, err := NewHTMLExtractor().ExtractTextFromBytes(context.Background(), []byte(jobPage), "job.html")
	require.NoError(t, err)

	assert.Contains(t, text, "Home Jobs")
	assert.Contains(t, text, "Looking for a Python developer with Docker experience", "相邻段落之间应有空格，行内元素不拆词")
	assert.NotContains(t, text, "tracking", "脚本内容应被忽略")
	assert.NotContains(t, text, "color", "样式内容应被忽略")
	assert.Equal(t, "Backend Engineer", metadata["title"])
	assert.Equal(t, "html", metadata["format"])
}

func TestHTMLExtractor_Selector(t *testing.T) {
	text, _, err := NewHTMLExtractor(WithSelector(".job-description")).
		ExtractTextFromBytes(context.Background(), []byte(jobPage), "job.html")
	require.NoError(t, err)
	assert.NotContains(t, text, "Home Jobs", "只提取选择器命中的内容")
	assert.Contains(t, text, "Backend Engineer Looking for a Python developer")

	text, _, err = NewHTMLExtractor(WithSelector("#missing")).
		ExtractTextFromBytes(context.Background(), []byte(jobPage), "job.html")
	require.NoError(t, err)
	assert.Contains(t, text, "Home Jobs", "选择器未命中时退回整页")
}
