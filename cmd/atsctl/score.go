package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ats-filter-go/internal/config"
	"ats-filter-go/internal/processor"
	"ats-filter-go/internal/types"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// jdFlags 三种岗位描述来源共用的参数
type jdFlags struct {
	text   string
	file   string
	jobID  string
	jobURL string
}

func (f *jdFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "jd", "", "job description text")
	cmd.Flags().StringVar(&f.file, "jd-file", "", "file containing the job description text")
	cmd.Flags().StringVar(&f.jobID, "job-id", "", "job ID looked up in Redis/MySQL")
	cmd.Flags().StringVar(&f.jobURL, "jd-url", "", "URL of a job posting to fetch")
	cmd.MarkFlagsMutuallyExclusive("jd", "jd-file")
}

func (f *jdFlags) input() (processor.JobDescriptionInput, error) {
	input := processor.JobDescriptionInput{
		Text:  f.text,
		JobID: f.jobID,
		URL:   f.jobURL,
	}
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return input, fmt.Errorf("读取岗位描述文件失败: %w", err)
		}
		input.Text = string(data)
	}
	return input, nil
}

var scoreOpts struct {
	resume        string
	jd            jdFlags
	jsonOutput    bool
	stopWordsFile string
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume file against a job description",
	Example: `  atsctl score --resume cv.pdf --jd "Looking for a Go developer"
  atsctl score --resume cv.txt --jd-file job.txt --json`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&scoreOpts.resume, "resume", "r", "", "resume file (pdf, txt, html, or office formats when Tika is configured)")
	scoreCmd.Flags().BoolVarP(&scoreOpts.jsonOutput, "json", "j", false, "print the result as JSON")
	scoreCmd.Flags().StringVar(&scoreOpts.stopWordsFile, "stopwords", "", "custom stop-word file, one word per line")
	scoreOpts.jd.register(scoreCmd)
	_ = scoreCmd.MarkFlagRequired("resume")
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if scoreOpts.stopWordsFile != "" {
		cfg.Matcher.StopWords = config.StopWordsConfig{Source: "file", File: scoreOpts.stopWordsFile}
	}
	if scoreOpts.jd.jobURL != "" {
		cfg.JDFetcher.Enabled = true
	}

	jd, err := scoreOpts.jd.input()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(scoreOpts.resume)
	if err != nil {
		return fmt.Errorf("读取简历文件失败: %w", err)
	}

	requestID := uuid.NewString()
	ctx := processor.WithRequestID(cmd.Context(), requestID)

	s, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var evaluation *processor.Evaluation
	evaluate := func() error {
		evaluation, err = s.evaluator.EvaluateDocument(ctx, data, filepath.Base(scoreOpts.resume), jd)
		return err
	}
	if scoreOpts.jsonOutput {
		err = evaluate()
	} else {
		err = withSpinner(cmd.ErrOrStderr(), "scoring "+filepath.Base(scoreOpts.resume), evaluate)
	}
	if err != nil {
		return fmt.Errorf("%s: %s", processor.ErrorCode(err), processor.PublicMessage(err))
	}

	resp := types.NewEvaluationResponse(requestID, evaluation)
	if scoreOpts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	printEvaluation(cmd.OutOrStdout(), resp)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// readTextArg 取位置参数拼成的文本，或 --file 指定的文件内容
func readTextArg(args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("读取文件失败: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}
