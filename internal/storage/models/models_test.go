package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopWordListRoundTrip(t *testing.T) {
	row, err := NewStopWordList("english", "builtin", []string{"the", "a", "don't"})
	require.NoError(t, err)
	assert.Equal(t, "stop_word_lists", row.TableName())
	assert.JSONEq(t, `["the","a","don't"]`, string(row.Words))

	words, err := row.WordList()
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "a", "don't"}, words)

	empty := &StopWordList{Language: "english"}
	words, err = empty.WordList()
	require.NoError(t, err)
	assert.Empty(t, words)

	broken := &StopWordList{Words: []byte("{not json")}
	_, err = broken.WordList()
	assert.Error(t, err)
}
