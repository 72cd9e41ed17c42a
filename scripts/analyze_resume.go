package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

var (
	resumeFile string
	jobFile    string
	saveResult bool
)

var rootCmd = &cobra.Command{
	Use:   "analyze_resume",
	Short: "Analyze a PDF resume against a job description",
	Long:  "Runs text extraction, the AI assessment and score parsing on one resume without the HTTP server.",
	RunE:  runAnalyze,
}

func init() {
	rootCmd.Flags().StringVarP(&resumeFile, "file", "f", "", "Path to the PDF resume")
	rootCmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to a text file with the job description")
	rootCmd.Flags().BoolVar(&saveResult, "save", false, "Persist the analysis to the configured database")

	_ = rootCmd.MarkFlagRequired("file")
	_ = rootCmd.MarkFlagRequired("job")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zlog, err := logger.New(config.ServerConfig{Env: cfg.Server.Env, LogDebug: cfg.Server.LogDebug})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zlog.Sync() //nolint:errcheck

	pdfData, err := os.ReadFile(resumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	jd, err := os.ReadFile(jobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}
	jobDescription := strings.TrimSpace(string(jd))
	if jobDescription == "" {
		return fmt.Errorf("job description file %s is empty", jobFile)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var assessor services.Assessor
	if cfg.AIProvider == config.ProviderGemini {
		assessor, err = services.NewGeminiService(ctx, cfg.Gemini, zlog)
		if err != nil {
			return err
		}
	} else {
		assessor = services.NewOpenRouterService(cfg.OpenRouter, zlog)
	}

	analyzer := services.NewAnalyzerService(services.NewPDFParserService(zlog), assessor, zlog)
	result := analyzer.Analyze(ctx, pdfData, jobDescription)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Extracted text: %d characters\n", len(result.ExtractedText))
	fmt.Fprintf(out, "Match score: %d\n\n", result.MatchScore)
	fmt.Fprintln(out, result.AIReply)

	if !saveResult {
		return nil
	}

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		return err
	}

	resume := &models.Resume{
		FileName:       resumeFile,
		JobDescription: jobDescription,
		ResumeText:     result.ExtractedText,
		AIResult:       result.AIReply,
		Score:          result.MatchScore,
	}
	if err := repositories.NewResumeRepository(db).Create(resume); err != nil {
		return err
	}

	zlog.Info("analysis saved", zap.Uint("id", resume.ID))
	return nil
}
