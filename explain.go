package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ErrAIUnavailable indicates the AI service is not reachable or returned an error.
var ErrAIUnavailable = errors.New("AI service unavailable")

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorDim   = "\033[2m"
)

// spinner provides a terminal loading animation on out. It is silent
// unless out is a terminal.
type spinner struct {
	mu      sync.Mutex
	out     io.Writer
	active  bool
	stop    chan struct{}
	done    chan struct{}
	message string
	frames  []string
	start   time.Time
	isTTY   bool
}

func newSpinner(out *os.File) *spinner {
	isTTY := false
	if fi, err := out.Stat(); err == nil {
		isTTY = (fi.Mode() & os.ModeCharDevice) != 0
	}
	return &spinner{
		out:    out,
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		isTTY:  isTTY,
	}
}

func (s *spinner) Start(msg string) {
	s.mu.Lock()
	if s.active || !s.isTTY {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.message = msg
	s.start = time.Now()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				elapsed := time.Since(s.start).Round(100 * time.Millisecond)
				_, _ = fmt.Fprintf(s.out, "\r%s%s %s%s %s[%s]%s  ", colorCyan, s.frames[i%len(s.frames)], s.message, colorReset, colorDim, elapsed, colorReset)
				s.mu.Unlock()
				i++
			}
		}
	}()
}

func (s *spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	stopCh := s.stop
	doneCh := s.done
	s.mu.Unlock()

	close(stopCh)
	<-doneCh
	_, _ = fmt.Fprint(s.out, "\r\033[K")
}

// explainer narrates a found expression through an OpenAI-compatible API.
type explainer struct {
	client openai.Client
	model  string
	log    *logger
}

func newExplainer(cfg appConfig, log *logger) (*explainer, error) {
	if !cfg.AI.Enabled {
		return nil, errors.New("AI explanations disabled (ai.enabled is false)")
	}

	apiKey := strings.TrimSpace(cfg.AI.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if apiKey == "" {
		return nil, errors.New("missing API key (set ai.api_key in config or OPENAI_API_KEY env)")
	}

	modelName := strings.TrimSpace(cfg.AI.Model)
	if modelName == "" {
		modelName = defaultAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL := strings.TrimSpace(cfg.AI.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
		log.infof("AI using custom endpoint: %s", baseURL)
	}

	client := openai.NewClient(opts...)
	return &explainer{client: client, model: modelName, log: log}, nil
}

const explainPrompt = `You explain solutions to a numbers puzzle.

The player is given six numbers and a target. A solution is written in
postfix (reverse Polish) notation: numbers are pushed on a stack and each
operator combines the two most recent values. Only whole, non-negative
intermediate results are allowed.

Rewrite the given solution as ordinary arithmetic with parentheses, then
walk through each step in one short sentence. Do not look for other
solutions. Plain text only, no markdown.`

// steps replays expr and describes each reduction, e.g. "100 + 6 = 106".
// It stops at the first step that fails.
func steps(expr Expression) []string {
	var out []string
	var stack []uint64
	for _, t := range expr {
		if t.Kind == Number {
			stack = append(stack, t.Value)
			continue
		}
		n := len(stack)
		if n < 2 {
			return out
		}
		b, a := stack[n-2], stack[n-1]
		v, ok := apply(t.Kind, b, a)
		if !ok {
			return out
		}
		out = append(out, fmt.Sprintf("%d %s %d = %d", b, t.Kind.Symbol(), a, v))
		stack = append(stack[:n-2], v)
	}
	return out
}

func explainQuery(p Problem, expr Expression) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Numbers: %v\n", p.Numbers)
	fmt.Fprintf(&sb, "Target: %d\n", p.Target)
	fmt.Fprintf(&sb, "Postfix solution: %s\n", expr)
	sb.WriteString("Reductions:\n")
	for _, s := range steps(expr) {
		fmt.Fprintf(&sb, "- %s\n", s)
	}
	return sb.String()
}

// Explain streams a walkthrough of expr to w.
func (e *explainer) Explain(ctx context.Context, w io.Writer, p Problem, expr Expression) error {
	spin := newSpinner(os.Stderr)
	spin.Start("asking for a walkthrough...")
	defer spin.Stop()

	stream := e.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(explainPrompt),
			openai.UserMessage(explainQuery(p, expr)),
		},
	})

	wrote := false
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if !wrote {
			spin.Stop()
			wrote = true
		}
		if _, err := io.WriteString(w, chunk.Choices[0].Delta.Content); err != nil {
			return fmt.Errorf("write explanation: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if !wrote {
		return errors.New("no content in response")
	}
	_, err := io.WriteString(w, "\n")
	return err
}
