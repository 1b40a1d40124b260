package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pricefetch/internal/logging"
)

// setupLogging configures logging from settings.yaml, the environment, and CLI flags,
// and attaches the logger and a trace ID to the command context.
func setupLogging(cmd *cobra.Command, s *session) logging.Result {
	loggingCfg := s.settings.Logging.ApplyEnv(s.lookupEnv)

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.NewLogger(loggingCfg.ToLoggingConfig(), cmd.ErrOrStderr())
	if result.FallbackReason != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(),
			"Warning: could not open log file, logging to stderr: %s\n", result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)

	s.logger = result.Logger.With().Str("trace_id", traceID).Logger()
	ctx = s.logger.WithContext(ctx)
	cmd.SetContext(ctx)

	log := logging.ComponentLogger(s.logger, "cli")
	if s.settingsErr != nil {
		log.Warn().Err(s.settingsErr).Str("path", s.paths.SettingsFile).Msg("using default settings")
	}
	log.Debug().
		Str("command", cmd.Name()).
		Str("config_dir", s.paths.Dir).
		Msg("command started")

	return result
}
