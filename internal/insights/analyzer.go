// Package insights produces a narrative analysis of a filtered report by
// calling an external text-generation service. The report content is the
// only input; the service never sees raw storage.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"cashflow/internal/core"
)

var ErrEmptyReport = errors.New("nothing to analyze: report is empty")

// Config controls the text-generation client. BaseURL is overridable so
// tests and self-hosted gateways can stand in for the hosted service.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

type Analyzer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewAnalyzer(cfg Config) *Analyzer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Analyzer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// AnalyzeReport asks the text-generation service for a short narrative
// over the filtered report. The derived totals are passed through as-is;
// the service is not trusted to recompute them.
func (a *Analyzer) AnalyzeReport(ctx context.Context, r core.Report, f core.ReportFilters) (string, error) {
	if len(r.Transactions) == 0 {
		return "", ErrEmptyReport
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(r, f)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("call text-generation service: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("text-generation service returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("text-generation service returned empty content")
	}
	return text, nil
}

func buildPrompt(r core.Report, f core.ReportFilters) string {
	var sb strings.Builder

	sb.WriteString("You are a personal-finance assistant. Analyze the following cash-flow report and write a short narrative analysis in plain prose.\n\n")
	sb.WriteString("Cover: overall balance for the period, the largest expense categories, notable single transactions, and one or two practical observations. Do not output tables, lists, or markdown.\n\n")

	fmt.Fprintf(&sb, "Period: %s to %s\n", f.Start.Format(time.DateOnly), f.End.Format(time.DateOnly))
	if f.Type != core.All {
		fmt.Fprintf(&sb, "Restricted to type: %s\n", f.Type)
	}
	if f.Category != core.All {
		fmt.Fprintf(&sb, "Restricted to category: %s\n", f.Category)
	}
	fmt.Fprintf(&sb, "Total income: %s\nTotal expense: %s\nBalance: %s\n\n",
		r.Income.Decimal(),
		r.Expense.Decimal(),
		core.Money{Cents: r.Income.Cents - r.Expense.Cents}.Decimal())

	sb.WriteString("Transactions (chronological):\n")
	for _, tx := range r.Transactions {
		fmt.Fprintf(&sb, "%s | %s | %s | %s | %s\n",
			tx.Date.Format(time.DateOnly), tx.Type, tx.Category, tx.Description, tx.Amount.Decimal())
	}

	return sb.String()
}
