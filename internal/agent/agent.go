// Package agent answers energy consumption questions through a local LLM
// using a small ReAct-style tool loop.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// LLM is the completion backend, satisfied by *ollama.Client.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Tool is a named function the model may invoke during reasoning.
type Tool struct {
	Name        string
	Description string
	Run         func(ctx context.Context, input string) (string, error)
}

// Fallback produces a templated answer when the LLM backend is unreachable.
type Fallback func(question string, forecastValue float64) string

// Agent runs the explanation loop.
type Agent struct {
	LLM           LLM
	Tools         []Tool
	MaxIterations int
	Fallback      Fallback

	// OnFallback, if set, is called whenever an answer comes from Fallback
	// instead of the LLM.
	OnFallback func()

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func New(llm LLM, tools ...Tool) *Agent {
	return &Agent{
		LLM:           llm,
		Tools:         tools,
		MaxIterations: 20,
	}
}

// Explain answers a question about a forecast. The loop feeds tool
// observations back to the model until it produces a final answer or the
// iteration budget runs out.
func (a *Agent) Explain(ctx context.Context, question string, forecastValue float64) (string, error) {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}

	prompt := a.buildPrompt(question, forecastValue, now)
	scratchpad := ""

	for i := 0; i < a.MaxIterations; i++ {
		out, err := a.LLM.Generate(ctx, prompt+scratchpad)
		if err != nil {
			if a.Fallback != nil {
				log.Printf("agent: llm backend unreachable, using templated answer: %v", err)
				if a.OnFallback != nil {
					a.OnFallback()
				}
				return a.Fallback(question, forecastValue), nil
			}
			return "", fmt.Errorf("llm generate: %w", err)
		}

		if answer, ok := parseFinalAnswer(out); ok {
			return answer, nil
		}

		action, input, ok := parseAction(out)
		if !ok {
			// No action and no final answer: treat the whole output as the
			// answer rather than looping on malformed text.
			return strings.TrimSpace(out), nil
		}

		observation := a.runTool(ctx, action, input)
		scratchpad += fmt.Sprintf("\nThought: %s\nAction: %s\nAction Input: %s\nObservation: %s\n",
			firstLine(out), action, input, observation)
	}

	return "", fmt.Errorf("no final answer after %d iterations", a.MaxIterations)
}

func (a *Agent) runTool(ctx context.Context, name, input string) string {
	for _, t := range a.Tools {
		if strings.EqualFold(t.Name, name) {
			out, err := t.Run(ctx, input)
			if err != nil {
				return fmt.Sprintf("tool error: %v", err)
			}
			return out
		}
	}
	return fmt.Sprintf("unknown tool %q, available: %s", name, strings.Join(a.toolNames(), ", "))
}

func (a *Agent) toolNames() []string {
	names := make([]string, 0, len(a.Tools))
	for _, t := range a.Tools {
		names = append(names, t.Name)
	}
	return names
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
