package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/futig/proposal-backend/internal/builder"
	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/usecase/proposal"
	"go.uber.org/zap"
)

const apiKeyEnv = "GEMINI_API_KEY"

// Registered before builder.BuildGenerator parses the command line.
var (
	clientName   = flag.String("client", "", "Client name printed on the proposal")
	inputPath    = flag.String("input", "-", "File with the client request, or - for stdin")
	outPath      = flag.String("out", "proposal.pdf", "Where to write the rendered PDF")
	markdownPath = flag.String("markdown", "", "Optional path for the proposal markdown")
	businessName = flag.String("business", "", "Your company name for the cover page")
	apiKey       = flag.String("api-key", "", "Gemini API key (defaults to $"+apiKeyEnv+")")
)

func main() {
	gen, err := builder.BuildGenerator()
	if err != nil {
		log.Fatal("Failed to build generator:", err)
	}
	defer gen.Logger.Sync()

	if err := run(gen); err != nil {
		gen.Logger.Error("proposal generation failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(gen *builder.Generator) error {
	userInput, err := readInput(*inputPath)
	if err != nil {
		return err
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv(apiKeyEnv)
	}

	req := &entity.GenerateProposalRequest{
		ClientName:   *clientName,
		UserInput:    userInput,
		APIKey:       entity.Credential(key),
		BusinessName: *businessName,
	}
	if err := gen.Validator.ValidateGenerateProposal(req); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, "Generating proposal...")
	progress := newProgressPrinter(os.Stderr)
	progress.Start(ctx)
	result, err := gen.Usecase.GenerateProposal(ctx, req, proposal.WithProgress(progress.Stage))
	progress.Stop()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("interrupted")
		}
		return err
	}

	if err := os.WriteFile(*outPath, result.State.ProposalPDF, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	if *markdownPath != "" {
		if err := os.WriteFile(*markdownPath, []byte(result.State.ProposalMarkdown), 0o644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
	}

	s := result.State
	fmt.Printf("Proposal %s\n", result.ID)
	fmt.Printf("  Project type: %s\n", s.ProjectType)
	fmt.Printf("  Category:     %s\n", s.Category)
	fmt.Printf("  Timeline:     %d weeks\n", s.EstimatedTimeline)
	fmt.Printf("  Pricing:\n    %s\n", strings.ReplaceAll(s.Pricing, "\n", "\n    "))
	fmt.Printf("  PDF written to %s\n", *outPath)

	return nil
}

func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

var stageMessages = map[string]string{
	proposal.StageUnifiedAnalysis: "Analyzed requirements",
	proposal.StageTimelineBudget:  "Estimated timeline and budget",
	proposal.StageProposalWriter:  "Wrote and rendered the proposal",
}
