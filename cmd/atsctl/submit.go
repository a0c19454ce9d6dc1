package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ats-filter-go/internal/storage"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var submitOpts struct {
	resume   string
	jd       jdFlags
	replyKey string
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Upload a resume to MinIO and queue it for asynchronous evaluation",
	Args:  cobra.NoArgs,
	RunE:  runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&submitOpts.resume, "resume", "r", "", "resume file to upload")
	submitCmd.Flags().StringVar(&submitOpts.replyKey, "reply-key", "", "routing key for the result message (default rabbitmq.result_routing_key)")
	submitOpts.jd.register(submitCmd)
	_ = submitCmd.MarkFlagRequired("resume")
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	jd, err := submitOpts.jd.input()
	if err != nil {
		return err
	}
	if jd.IsEmpty() {
		return fmt.Errorf("需要 --jd、--jd-file、--job-id 或 --jd-url 之一")
	}

	ctx := cmd.Context()
	s := storage.NewStorage(ctx, cfg)
	defer s.Close()
	if s.MinIO == nil || s.RabbitMQ == nil {
		return fmt.Errorf("异步评估需要同时配置 MinIO 与 RabbitMQ")
	}

	file, err := os.Open(submitOpts.resume)
	if err != nil {
		return fmt.Errorf("打开简历文件失败: %w", err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("读取简历文件信息失败: %w", err)
	}

	requestID := uuid.NewString()
	objectKey := fmt.Sprintf("uploads/%s/%s", requestID, filepath.Base(submitOpts.resume))
	objectKey, err = s.MinIO.UploadResumeFile(ctx, objectKey, file, info.Size())
	if err != nil {
		return err
	}

	if err := s.RabbitMQ.SetupEvaluationTopology(); err != nil {
		return fmt.Errorf("声明评估队列失败: %w", err)
	}
	message := storage.EvaluationRequestMessage{
		RequestID:       requestID,
		CreatedAt:       time.Now(),
		ResumeObjectKey: objectKey,
		JobDescription:  jd.Text,
		JobID:           jd.JobID,
		JobURL:          jd.URL,
		ReplyRoutingKey: submitOpts.replyKey,
	}
	if err := s.RabbitMQ.PublishJSON(ctx, cfg.RabbitMQ.EvaluationExchange, cfg.RabbitMQ.RequestRoutingKey, message, true); err != nil {
		return fmt.Errorf("发布评估请求失败: %w", err)
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ queued evaluation %s\n", requestID)
	fmt.Fprintf(cmd.OutOrStdout(), "  object: %s\n", objectKey)
	return nil
}
