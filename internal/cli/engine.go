// internal/cli/engine.go
package synod

import (
	"errors"

	"github.com/mwiater/synod/internal/appconfig"
	"github.com/mwiater/synod/internal/council"
	"github.com/mwiater/synod/internal/openrouter"
)

// buildEngine constructs the council engine from the loaded configuration.
func buildEngine(cfg *appconfig.Config) (*council.Engine, error) {
	if cfg == nil || len(cfg.CouncilModels) == 0 {
		return nil, errors.New("no council models configured; set councilModels in the config file")
	}
	if cfg.ChairmanModel == "" {
		return nil, errors.New("no chairman model configured; set chairmanModel in the config file")
	}

	client, err := openrouter.New(openrouter.Config{
		APIKey:  cfg.APIKey(),
		Timeout: cfg.RequestTimeout(),
	})
	if err != nil {
		return nil, err
	}

	return council.NewEngine(client, cfg.CouncilModels, cfg.ChairmanModel), nil
}
