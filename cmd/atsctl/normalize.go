package main

import (
	"fmt"

	"ats-filter-go/internal/processor"
	"ats-filter-go/internal/storage"
	"ats-filter-go/internal/types"

	"github.com/spf13/cobra"
)

var normalizeOpts struct {
	file       string
	jsonOutput bool
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [text...]",
	Short: "Print the keyword set extracted from a piece of text",
	RunE:  runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVarP(&normalizeOpts.file, "file", "f", "", "read the text from a file instead of arguments")
	normalizeCmd.Flags().BoolVarP(&normalizeOpts.jsonOutput, "json", "j", false, "print the keywords as JSON")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readTextArg(args, normalizeOpts.file)
	if err != nil {
		return err
	}

	// 只需要停用词来源，不初始化文档提取器
	s := storage.NewStorage(cmd.Context(), cfg)
	defer s.Close()
	matcher, _, err := processor.BuildMatcher(cmd.Context(), cfg.Matcher, s)
	if err != nil {
		return err
	}

	keywords := matcher.Normalize(text).Words()
	if normalizeOpts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), types.NormalizeResponse{Keywords: keywords, Count: len(keywords)})
	}
	for _, w := range keywords {
		fmt.Fprintln(cmd.OutOrStdout(), w)
	}
	return nil
}
