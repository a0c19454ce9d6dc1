package main

import (
	"fmt"

	"ats-filter-go/internal/processor"
	"ats-filter-go/internal/stopwords"
	"ats-filter-go/internal/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var stopWordsOpts struct {
	source   string
	target   string
	file     string
	language string
}

var stopWordsCmd = &cobra.Command{
	Use:   "stopwords",
	Short: "Inspect or seed stop-word lists",
}

var stopWordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stop words loaded from the configured source",
	Args:  cobra.NoArgs,
	RunE:  runStopWordsList,
}

var stopWordsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the built-in (or a file's) stop-word list to Redis or MySQL",
	Args:  cobra.NoArgs,
	RunE:  runStopWordsSeed,
}

func init() {
	rootCmd.AddCommand(stopWordsCmd)
	stopWordsCmd.AddCommand(stopWordsListCmd, stopWordsSeedCmd)

	stopWordsCmd.PersistentFlags().StringVar(&stopWordsOpts.language, "language", stopwords.DefaultLanguage, "stop-word language")
	stopWordsListCmd.Flags().StringVar(&stopWordsOpts.source, "source", "", "override matcher.stopwords.source (builtin, file, redis, mysql)")
	stopWordsSeedCmd.Flags().StringVar(&stopWordsOpts.target, "target", "redis", "where to write the list: redis or mysql")
	stopWordsSeedCmd.Flags().StringVar(&stopWordsOpts.file, "file", "", "seed from this file instead of the built-in list")
}

func runStopWordsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if stopWordsOpts.source != "" {
		cfg.Matcher.StopWords.Source = stopWordsOpts.source
		cfg.Matcher.StopWords.FallbackToBuiltin = false
	}

	s := storage.NewStorage(cmd.Context(), cfg)
	defer s.Close()

	provider, err := processor.BuildStopWordProvider(cfg.Matcher.StopWords, s)
	if err != nil {
		return err
	}
	set, err := stopwords.Load(cmd.Context(), provider, stopWordsOpts.language)
	if err != nil {
		return err
	}
	for _, w := range set.Words() {
		fmt.Fprintln(cmd.OutOrStdout(), w)
	}
	return nil
}

func runStopWordsSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var (
		set    *stopwords.Set
		source = "builtin"
	)
	if stopWordsOpts.file != "" {
		source = "file"
		set, err = stopwords.NewFileProvider(stopWordsOpts.file).StopWords(cmd.Context(), stopWordsOpts.language)
	} else {
		set, err = stopwords.Builtin{}.StopWords(cmd.Context(), stopWordsOpts.language)
	}
	if err != nil {
		return err
	}

	s := storage.NewStorage(cmd.Context(), cfg)
	defer s.Close()

	switch stopWordsOpts.target {
	case "redis":
		if s.Redis == nil {
			return fmt.Errorf("Redis 未配置或连接失败")
		}
		n, err := s.Redis.SeedStopWords(cmd.Context(), set.Language(), set.Words())
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ wrote %d stop words to Redis (%s)\n", n, set.Language())
	case "mysql":
		if s.MySQL == nil {
			return fmt.Errorf("MySQL 未配置或连接失败")
		}
		if err := s.MySQL.SaveStopWordList(cmd.Context(), set.Language(), source, set.Words()); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ wrote %d stop words to MySQL (%s)\n", set.Len(), set.Language())
	default:
		return fmt.Errorf("未知的写入目标: %s", stopWordsOpts.target)
	}
	return nil
}
