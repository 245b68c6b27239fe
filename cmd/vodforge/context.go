package main

import (
	"strings"
	"sync"

	"vodforge/internal/api"
	"vodforge/internal/config"
)

type commandContext struct {
	configFlag *string
	addrFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, addrFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		addrFlag:   addrFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// apiClient builds a client for the configured daemon address, with the
// --addr flag taking precedence over config.
func (c *commandContext) apiClient() (*api.Client, error) {
	if c.addrFlag != nil {
		if addr := strings.TrimSpace(*c.addrFlag); addr != "" {
			return api.NewClient(addr), nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg.Paths.APIBind), nil
}
