package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"
)

type execGenerator struct {
	cmd []string
	mu  sync.Mutex
}

type execResponse struct {
	Content string `json:"content"`
}

// NewExecGenerator wraps an external command as a script backend. The
// command receives the prompts as JSON on stdin and answers on stdout with
// either the script JSON directly or a {"content": ...} wrapper around it.
func NewExecGenerator(command string) (Generator, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse script command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("script command empty")
	}
	return &execGenerator{cmd: args}, nil
}

func (g *execGenerator) Generate(ctx context.Context, req Request) ([]Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	payload := map[string]any{
		"system":      SystemPrompt(req),
		"prompt":      UserPrompt(req),
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	base := g.cmd[0]
	args := append([]string{}, g.cmd[1:]...)
	cmd := exec.CommandContext(ctx, base, args...)
	cmd.Stdin = bytes.NewReader(input)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("script exec command failed: %w", err)
	}

	raw := string(output)
	var resp execResponse
	if err := json.Unmarshal(output, &resp); err == nil && resp.Content != "" {
		raw = resp.Content
	}
	return ParseResponse(raw, req)
}
