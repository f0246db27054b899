package strategist

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/qi-duel/internal/models"
)

//go:embed prompts/choose_allocation.txt
var chooseAllocationPrompt string

var chooseTmpl = template.Must(template.New("choose_allocation").Parse(chooseAllocationPrompt))

// Gemini asks a Gemini model for each allocation. Unusable answers fall back
// to another Strategist.
type Gemini struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	fallback Strategist
}

func NewGemini(ctx context.Context, apiKey string, fallback Strategist) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	return &Gemini{
		client:   client,
		model:    model,
		fallback: fallback,
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Choose(ctx context.Context, s models.Snapshot, p Previewer) (models.Allocation, error) {
	prompt, err := renderPrompt(s)
	if err != nil {
		return models.Allocation{}, err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return g.fallBack(ctx, s, p, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return g.fallBack(ctx, s, p, fmt.Errorf("no content returned from Gemini"))
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return g.fallBack(ctx, s, p, fmt.Errorf("unexpected response type from Gemini"))
	}

	ans, err := parseAnswer(string(text))
	if err != nil {
		return g.fallBack(ctx, s, p, err)
	}
	alloc := models.Allocation{Yang: ans.Yang, Yin: ans.Yin}
	proj, err := p.Preview(alloc.Yang, alloc.Yin)
	if err != nil {
		return g.fallBack(ctx, s, p, err)
	}
	if proj.Locked {
		return g.fallBack(ctx, s, p, fmt.Errorf("%s is locked", proj.State))
	}

	slog.Debug("gemini allocation", "round", s.Round, "yang", alloc.Yang, "yin", alloc.Yin, "reason", ans.Reason)
	return alloc, nil
}

func (g *Gemini) fallBack(ctx context.Context, s models.Snapshot, p Previewer, cause error) (models.Allocation, error) {
	if g.fallback == nil {
		return models.Allocation{}, cause
	}
	slog.Warn("gemini answer unusable, falling back", "round", s.Round, "err", cause, "fallback", g.fallback.Name())
	return g.fallback.Choose(ctx, s, p)
}

type answer struct {
	Yang   float64 `yaml:"yang"`
	Yin    float64 `yaml:"yin"`
	Reason string  `yaml:"reason"`
}

func parseAnswer(text string) (answer, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var ans answer
	if err := yaml.Unmarshal([]byte(clean), &ans); err != nil {
		return answer{}, fmt.Errorf("failed to parse answer YAML: %w\nOutput was: %s", err, clean)
	}
	return ans, nil
}

func renderPrompt(s models.Snapshot) (string, error) {
	state, err := yaml.Marshal(struct {
		Player   models.Combatant `yaml:"you"`
		Enemy    models.Combatant `yaml:"opponent"`
		Cooldown int              `yaml:"heal_cooldown"`
		Ultimate bool             `yaml:"ultimate_used"`
	}{s.Player, s.Enemy, s.HealCooldown, s.UltimateUsed})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	data := struct {
		MaxPoints float64
		Round     int
		State     string
		Intent    models.Action
	}{
		MaxPoints: s.MaxPoints,
		Round:     s.Round,
		State:     string(state),
		Intent:    s.Intent,
	}
	if err := chooseTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
