package config

import "go.uber.org/zap"

// newLogger writes JSON logs to stdout and, when logFile is set, to that file.
func newLogger(logFile string) *zap.SugaredLogger {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stdout"}
	if logFile != "" {
		logCfg.OutputPaths = append(logCfg.OutputPaths, logFile)
	}
	logger, err := logCfg.Build()
	if err != nil {
		// unwritable log file: keep stdout
		logCfg.OutputPaths = []string{"stdout"}
		logger = zap.Must(logCfg.Build())
		logger.Warn("log file unavailable", zap.String("path", logFile), zap.Error(err))
	}
	return logger.Sugar()
}
