package stopwords

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	words []string
	err   error
	calls int
	lang  string
}

func (f *fakeSource) LoadStopWords(_ context.Context, language string) ([]string, error) {
	f.calls++
	f.lang = language
	return f.words, f.err
}

func TestBuiltin_English(t *testing.T) {
	set, err := Builtin{}.StopWords(context.Background(), "english")
	require.NoError(t, err)
	assert.Equal(t, 179, set.Len(), "NLTK 英文停用词表应为179个词")
	for _, w := range []string{"the", "a", "with", "for", "and", "don't", "wouldn"} {
		assert.True(t, set.Contains(w), "%q 应为停用词", w)
	}
	assert.False(t, set.Contains("python"))
	assert.False(t, set.Contains("dont"), "去标点后的缩写不在停用词表中")

	alias, err := Builtin{}.StopWords(context.Background(), "EN")
	require.NoError(t, err)
	assert.Equal(t, set.Len(), alias.Len())
}

func TestBuiltin_UnsupportedLanguage(t *testing.T) {
	_, err := Builtin{}.StopWords(context.Background(), "german")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("# custom list\nThe\n\n  looking \nfor\n"), 0644))

	set, err := NewFileProvider(path).StopWords(context.Background(), "english")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"the", "looking", "for"}, set.Words())

	_, err = NewFileProvider(filepath.Join(dir, "missing.txt")).StopWords(context.Background(), "english")
	assert.Error(t, err)

	emptyPath := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(emptyPath, []byte("# nothing\n"), 0644))
	_, err = NewFileProvider(emptyPath).StopWords(context.Background(), "english")
	assert.True(t, errors.Is(err, ErrEmptyStopWordList))
}

func TestSourceProvider(t *testing.T) {
	src := &fakeSource{words: []string{"alpha", "Beta"}}
	set, err := NewSourceProvider("redis", src).StopWords(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, "english", src.lang, "语言名应被规范化")
	assert.True(t, set.Contains("beta"))

	_, err = NewSourceProvider("redis", &fakeSource{}).StopWords(context.Background(), "english")
	assert.True(t, errors.Is(err, ErrEmptyStopWordList))

	boom := errors.New("connection refused")
	_, err = NewSourceProvider("mysql", &fakeSource{err: boom}).StopWords(context.Background(), "english")
	assert.True(t, errors.Is(err, boom))
}

func TestFallback(t *testing.T) {
	failing := NewSourceProvider("redis", &fakeSource{err: errors.New("down")})
	set, err := Fallback(failing, Builtin{}).StopWords(context.Background(), "english")
	require.NoError(t, err)
	assert.Equal(t, 179, set.Len())

	src := &fakeSource{words: []string{"only"}}
	set, err = Fallback(NewSourceProvider("redis", src), Builtin{}).StopWords(context.Background(), "english")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, set.Words(), "主来源可用时不应回退")
}

func TestLoad_Defaults(t *testing.T) {
	set, err := Load(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, set.Language())
	assert.Equal(t, 179, set.Len())
}

func TestNilSet(t *testing.T) {
	var s *Set
	assert.False(t, s.Contains("the"))
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Words())
}
