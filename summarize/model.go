package summarize

import (
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/cost"
	"github.com/hupe1980/alertmesh/internal/util"
	"github.com/hupe1980/alertmesh/logging"
	"github.com/hupe1980/alertmesh/model"
)

// InvestigatorInstructions is the system prompt of the investigator model.
const InvestigatorInstructions = "You are an SRE Investigator. Provide:\n" +
	"- Root cause\n" +
	"- Summary of findings\n" +
	"- 1-2 remediation steps\n" +
	"Keep responses short and precise."

// DefaultCommanderPrompt is the incident commander's delegation message. It
// is rendered against the InvestigationReport.
const DefaultCommanderPrompt = `Alert received: {{.Alert.Type}} on service {{.Alert.Service}}
Findings:
{{range .Investigation}}- {{.Step}} ({{.Tool}}): {{if .Execution.OK}}{{.Execution.Result}}{{else}}FAILED {{.Execution.Error}}{{end}}
{{end}}Please investigate the issue and provide root cause, summary, and remediation steps.`

// ModelOptions configures a ModelSummarizer.
type ModelOptions struct {
	Instructions string
	Prompt       string
	MaxTokens    int64
	TokenCost    float64
	Logger       logging.Logger
}

// ModelSummarizer delegates the analysis to a language model.
type ModelSummarizer struct {
	llm          model.Model
	instructions string
	prompt       *template.Template
	maxTokens    int64
	tokenCost    float64
	logger       logging.Logger
}

// NewModelSummarizer creates a ModelSummarizer backed by llm.
func NewModelSummarizer(llm model.Model, optFns ...func(o *ModelOptions)) (*ModelSummarizer, error) {
	if llm == nil {
		return nil, errors.New("model is required")
	}

	opts := ModelOptions{
		Instructions: InvestigatorInstructions,
		Prompt:       DefaultCommanderPrompt,
		MaxTokens:    512,
		TokenCost:    cost.TokenCost,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	tmpl, err := util.ParseTemplate("commander", opts.Prompt)
	if err != nil {
		return nil, err
	}

	return &ModelSummarizer{
		llm:          llm,
		instructions: opts.Instructions,
		prompt:       tmpl,
		maxTokens:    opts.MaxTokens,
		tokenCost:    opts.TokenCost,
		logger:       opts.Logger,
	}, nil
}

// Summarize implements Summarizer. Token usage reported by the provider is
// preferred; without it the response length is used.
func (s *ModelSummarizer) Summarize(ctx context.Context, report *core.InvestigationReport) (*Summary, error) {
	if report == nil {
		return nil, errors.New("nil report")
	}

	prompt, err := util.ExecuteTemplate(s.prompt, report)
	if err != nil {
		return nil, fmt.Errorf("render commander prompt: %w", err)
	}

	info := s.llm.Info()
	s.logger.Debug("summarize.model.request", "provider", info.Provider, "model", info.Name, "prompt_len", len(prompt))

	resp, err := s.llm.Generate(ctx, model.Request{
		Instructions: s.instructions,
		Messages:     []model.Message{{Role: model.RoleUser, Text: prompt}},
		MaxTokens:    s.maxTokens,
	})
	if err != nil {
		s.logger.Error("summarize.model.error", "provider", info.Provider, "error", err.Error())
		return nil, fmt.Errorf("summarize with %s: %w", info.Provider, err)
	}

	tokens := cost.EstimateTokens(resp.Text)
	if resp.Usage != nil && resp.Usage.TotalTokens > 0 {
		tokens = resp.Usage.TotalTokens
	}

	tracker := cost.NewTracker(s.tokenCost)
	tracker.AddTokens(tokens)
	sum := tracker.Summary()

	s.logger.Info("summarize.model.complete", "provider", info.Provider, "model", info.Name, "tokens", sum.Tokens, "usd", sum.USD)

	return &Summary{
		Text:     resp.Text,
		Provider: info.Provider,
		Model:    info.Name,
		Tokens:   sum.Tokens,
		CostUSD:  sum.USD,
	}, nil
}
