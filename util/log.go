package util

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SetLogLevel accepts both logrus names and the java.util.logging
// style names (off, severe, warning, fine, finest, all) the shell uses.
func SetLogLevel(level string, out io.Writer) error {
	defer log.SetOutput(out)

	switch strings.ToLower(level) {
	case "off":
		log.SetLevel(log.PanicLevel)
	case "all", "config", "fine", "finest", "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn", "warning":
		log.SetLevel(log.WarnLevel)
	case "error", "severe":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
		return fmt.Errorf("log level %q is unrecognized, using info", level)
	}

	return nil
}
