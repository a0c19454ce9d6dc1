package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"errors"
	"strings"
	"testing"
	"time"

	"ats-filter-go/internal/types"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testResume = "Experienced Python developer with AWS and Docker skills"
	testJob    = "Looking for a Python developer with Docker experience"
)

// runCLI 执行一次命令并返回 stdout；全局选项在每次执行前复位
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	color.NoColor = true

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := ExecuteContext(context.Background())
	return stdout.String(), err
}

// resetFlags 恢复所有命令的参数默认值，并清除 Changed 标记
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScore_JSON(t *testing.T) {
	resume := writeFile(t, "resume.txt", testResume)

	out, err := runCLI(t, "score", "--resume", resume, "--jd", testJob, "--json")
	require.NoError(t, err)

	var resp types.EvaluationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, 60.0, resp.Score)
	assert.Equal(t, "warning", resp.Level)
	assert.Equal(t, []string{"developer", "docker", "python"}, resp.MatchedKeywords)
	assert.Equal(t, []string{"experience", "looking"}, resp.MissingKeywords)
	assert.Equal(t, 6, resp.ResumeKeywordCount)
	assert.Equal(t, 5, resp.JobKeywordCount)
}

func TestScore_Text(t *testing.T) {
	resume := writeFile(t, "resume.txt", testResume)
	job := writeFile(t, "job.txt", testJob)

	out, err := runCLI(t, "score", "-r", resume, "--jd-file", job)
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 60.00%  somewhat relevant, consider optimizing")
	assert.Contains(t, out, "Matched: developer, docker, python")
	assert.Contains(t, out, "Missing: experience, looking")
}

func TestScore_CustomStopWords(t *testing.T) {
	resume := writeFile(t, "resume.txt", testResume)
	stop := writeFile(t, "stop.txt", "looking\nexperience\nfor\na\nwith\n")

	out, err := runCLI(t, "score", "-r", resume, "--jd", testJob, "--stopwords", stop, "--json")
	require.NoError(t, err)

	var resp types.EvaluationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 100.0, resp.Score)
	assert.Equal(t, "highly relevant", resp.Verdict)
}

func TestScore_Errors(t *testing.T) {
	resume := writeFile(t, "resume.txt", testResume)
	blank := writeFile(t, "blank.txt", "   \n")

	_, err := runCLI(t, "score", "-r", resume)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "MISSING_JOB_DESCRIPTION"), err.Error())

	_, err = runCLI(t, "score", "-r", blank, "--jd", testJob)
	require.Error(t, err)
	assert.Equal(t, "EMPTY_EXTRACTION: could not extract text from the uploaded document", err.Error())

	_, err = runCLI(t, "score", "-r", filepath.Join(t.TempDir(), "missing.pdf"), "--jd", testJob)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	out, err := runCLI(t, "normalize", "Looking", "for", "a", "Python", "developer!")
	require.NoError(t, err)
	assert.Equal(t, "developer\nlooking\npython\n", out)

	out, err = runCLI(t, "normalize", "--json", "the", "and")
	require.NoError(t, err)
	assert.JSONEq(t, `{"keywords":[],"count":0}`, out)
}

func TestStopWordsList_Builtin(t *testing.T) {
	out, err := runCLI(t, "stopwords", "list", "--source", "builtin")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 179)
}

func TestStopWordsSeed_RequiresStorage(t *testing.T) {
	_, err := runCLI(t, "stopwords", "seed", "--target", "redis")
	assert.Error(t, err)
}

func TestSubmit_RequiresStorage(t *testing.T) {
	resume := writeFile(t, "resume.txt", testResume)
	_, err := runCLI(t, "submit", "-r", resume, "--jd", testJob)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MinIO")
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "atsctl version: unknown\n", out)
}

func TestWithSpinner_WaitsForTicker(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	err := withSpinner(&buf, "scoring", func() error {
		calls++
		time.Sleep(250 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// 返回后刷新协程已退出，进度条不再写入
	written := buf.Len()
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, written, buf.Len(), "withSpinner 返回后不应再有输出")

	sentinel := errors.New("boom")
	assert.ErrorIs(t, withSpinner(&bytes.Buffer{}, "scoring", func() error { return sentinel }), sentinel)
}
