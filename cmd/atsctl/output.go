package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"ats-filter-go/internal/types"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// withSpinner 在 fn 执行期间显示一个不定长进度条
func withSpinner(w io.Writer, description string, fn func() error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		// 由下面的协程驱动刷新，关闭进度条自带的定时刷新
		progressbar.OptionSetSpinnerChangeInterval(0),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	err := fn()
	close(done)
	// 等待刷新协程退出后再结束进度条
	wg.Wait()
	_ = bar.Finish()
	return err
}

func levelColor(level string) *color.Color {
	switch level {
	case "success":
		return color.New(color.FgGreen, color.Bold)
	case "warning":
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// printEvaluation 以人类可读的形式输出评估结果
func printEvaluation(w io.Writer, resp types.EvaluationResponse) {
	levelColor(resp.Level).Fprintf(w, "Score: %.2f%%  %s\n", resp.Score, resp.Verdict)
	fmt.Fprintln(w, resp.Message)
	fmt.Fprintf(w, "Resume keywords: %d  Job keywords: %d  (JD source: %s)\n",
		resp.ResumeKeywordCount, resp.JobKeywordCount, resp.JobSource)

	fmt.Fprintf(w, "%s %s\n", color.GreenString("Matched:"), joinOrNone(resp.MatchedKeywords))
	fmt.Fprintf(w, "%s %s\n", color.RedString("Missing:"), joinOrNone(resp.MissingKeywords))
}

func joinOrNone(words []string) string {
	if len(words) == 0 {
		return "(none)"
	}
	return strings.Join(words, ", ")
}
