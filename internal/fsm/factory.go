package fsm

import (
	"fmt"

	"github.com/fieldscope/fieldscope/internal/config"
)

// NewClient constructs the appropriate FSM client based on config.
// Called once at server startup.
func NewClient(cfg config.FSMConfig) (Client, error) {
	switch cfg.Provider {
	case "workiz":
		return NewWorkizClient(cfg.Workiz, cfg.Timeout), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown FSM provider %q: must be one of workiz, mock", cfg.Provider)
	}
}
