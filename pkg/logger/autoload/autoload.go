// Package autoload initialises the global logger from LOG_* variables.
// Import it for side effects from main only.
package autoload

import (
	configx "github.com/tanpawarit/dekomposit/pkg/config"
	logx "github.com/tanpawarit/dekomposit/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
