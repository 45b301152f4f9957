// Package main blogctl 命令行入口，离线执行生成流水线
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"ai-blog-writer-api/internal/application/blog"
	"ai-blog-writer-api/internal/config"
	"ai-blog-writer-api/internal/domain/entity"
	"ai-blog-writer-api/internal/infrastructure/export"
	"ai-blog-writer-api/internal/interfaces/http/dto"
	einoobs "ai-blog-writer-api/internal/observability/eino"
	"ai-blog-writer-api/internal/wire"
	wfmodel "ai-blog-writer-api/internal/workflow/model"
	"ai-blog-writer-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	inputFile   string
	outputFile  string
	htmlFile    string
	sessionID   string
	step        string
	trendSource string
	provider    string
	clearMemory bool
)

func main() {
	root := &cobra.Command{
		Use:     "blogctl",
		Short:   "AI 博客生成流水线命令行工具",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
	}

	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "执行一个流水线阶段并输出产物",
		RunE:  runGenerate,
	}
	genCmd.Flags().StringVarP(&inputFile, "input-file", "i", "", "请求 JSON 文件路径（与 HTTP 接口同构）")
	genCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "产物输出路径，默认打印到 stdout")
	genCmd.Flags().StringVar(&htmlFile, "html-file", "", "将 Markdown 产物渲染为 HTML 并写入该路径")
	genCmd.Flags().StringVar(&sessionID, "session-id", "", "会话 ID，缺省时自动生成")
	genCmd.Flags().StringVar(&step, "step", "", "流水线阶段，覆盖请求文件中的 step")
	genCmd.Flags().StringVar(&trendSource, "trend-source", "", "趋势来源，覆盖请求文件中的 find_trends_type")
	genCmd.Flags().StringVar(&provider, "provider", "", "LLM 提供商，覆盖请求文件中的 provider")
	genCmd.Flags().BoolVar(&clearMemory, "clear-memory", false, "运行前清空会话上下文")
	_ = genCmd.MarkFlagRequired("input-file")

	root.AddCommand(genCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)
	einoobs.Init()

	req, err := loadRequest(inputFile)
	if err != nil {
		return err
	}
	applyOverrides(req)

	ctx := logger.WithContext(context.Background(), logger.SessionIDKey, req.SessionID)
	ctx = logger.WithContext(ctx, logger.StageKey, req.Step)

	app, cleanup, err := wire.InitializeApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()

	outcome := app.Orchestrator.Run(ctx, blog.GenerateInput{
		Brief: entity.ContentBrief{
			Topic:     req.Blog.Topic,
			Goal:      req.Blog.Goal,
			Structure: req.Blog.Structure,
			Persona:   req.Blog.Persona,
			Tone:      req.Blog.Tone,
			Keyword:   req.Blog.Keyword,
		},
		SessionID:   req.SessionID,
		ClearMemory: req.ClearMemory,
		UserInput:   req.UserInput,
		Stage:       req.Step,
		TrendSource: req.FindTrendsType,
		Options: wfmodel.GenerateOptions{
			Provider:    req.Provider,
			Model:       req.Model,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		},
	})

	if err := writeOutcome(outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return fmt.Errorf("pipeline failed: %s", outcome.Content)
	}
	return nil
}

// loadRequest 从文件读取请求，格式与 HTTP 接口一致
func loadRequest(path string) (*dto.BlogGenerateRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var req dto.BlogGenerateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}
	return &req, nil
}

// applyOverrides 用命令行参数覆盖请求文件字段
func applyOverrides(req *dto.BlogGenerateRequest) {
	if sessionID != "" {
		req.SessionID = sessionID
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if step != "" {
		req.Step = step
	}
	if trendSource != "" {
		req.FindTrendsType = trendSource
	}
	if provider != "" {
		req.Provider = provider
	}
	if clearMemory {
		req.ClearMemory = true
	}
}

// writeOutcome 输出流水线结果；JSON 到 stdout 或 output-file，可选渲染 HTML
func writeOutcome(outcome blog.PipelineOutcome) error {
	encoded, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, encoded, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		fmt.Println(string(encoded))
	}

	if htmlFile != "" && outcome.Success {
		html, err := export.MarkdownToHTML(outcome.Content)
		if err != nil {
			return fmt.Errorf("failed to render html: %w", err)
		}
		if err := os.WriteFile(htmlFile, []byte(html), 0o644); err != nil {
			return fmt.Errorf("failed to write html file: %w", err)
		}
	}
	return nil
}
