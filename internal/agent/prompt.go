package agent

import (
	"fmt"
	"strings"
	"time"
)

// buildPrompt assembles the ReAct instruction block, the tool inventory and
// the question context.
func (a *Agent) buildPrompt(question string, forecastValue float64, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are an assistant explaining household energy consumption forecasts.\n")
	b.WriteString("Answer the question using the tools when historical data is needed.\n\n")

	b.WriteString("Available tools:\n")
	for _, t := range a.Tools {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}

	b.WriteString("\nUse this format:\n")
	b.WriteString("Thought: what you need to find out\n")
	fmt.Fprintf(&b, "Action: one of [%s]\n", strings.Join(a.toolNames(), ", "))
	b.WriteString("Action Input: the input to the tool\n")
	b.WriteString("Observation: the tool result (provided to you)\n")
	b.WriteString("... repeat Thought/Action as needed ...\n")
	b.WriteString("Final Answer: the explanation for the user\n\n")

	fmt.Fprintf(&b, "Current energy forecast: %.2f Wh\n", forecastValue)
	fmt.Fprintf(&b, "Time: %s\n", now.Format("15:04"))
	fmt.Fprintf(&b, "Question: %s\n", question)

	return b.String()
}

// parseFinalAnswer extracts the text after the last "Final Answer:" marker.
func parseFinalAnswer(out string) (string, bool) {
	idx := strings.LastIndex(out, "Final Answer:")
	if idx == -1 {
		return "", false
	}
	return strings.TrimSpace(out[idx+len("Final Answer:"):]), true
}

// parseAction extracts the first Action / Action Input pair.
func parseAction(out string) (action, input string, ok bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case action == "" && strings.HasPrefix(line, "Action:"):
			action = strings.TrimSpace(strings.TrimPrefix(line, "Action:"))
		case action != "" && strings.HasPrefix(line, "Action Input:"):
			input = strings.TrimSpace(strings.TrimPrefix(line, "Action Input:"))
			return action, input, true
		}
	}
	if action != "" {
		return action, "", true
	}
	return "", "", false
}
