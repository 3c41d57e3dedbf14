package script

import (
	"fmt"

	"github.com/podwavelabs/podwave-core/internal/config"
)

// NewGenerator selects a script backend from config.
func NewGenerator(cfg config.ScriptConfig) (Generator, error) {
	switch cfg.Mode {
	case "mock":
		return NewMockGenerator(), nil
	case "openai":
		return NewOpenAIGenerator(cfg.APIKey, cfg.Model)
	case "exec":
		return NewExecGenerator(cfg.Command)
	default:
		return nil, fmt.Errorf("unsupported script mode %q", cfg.Mode)
	}
}
