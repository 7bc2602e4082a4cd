package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	ansiReset = "\033[0m"
	ansiBlue  = "\033[34m"
)

var levelStyles = map[string]struct{ tag, color string }{
	"trace": {"TRC", "\033[90m"},
	"debug": {"DBG", "\033[36m"},
	"info":  {"INF", "\033[32m"},
	"warn":  {"WRN", "\033[33m"},
	"error": {"ERR", "\033[31m"},
	"fatal": {"FTL", "\033[35m"},
}

// consoleWriter renders lines as "15:04:05 [DIS][INF] message key:value",
// the bracketed prefix being the first three letters of the service.
func consoleWriter(w io.Writer, service string, noColor bool) zerolog.ConsoleWriter {
	paint := func(color, s string) string {
		if noColor || color == "" {
			return s
		}
		return color + s + ansiReset
	}

	prefix := ""
	if len(service) >= 3 {
		prefix = paint(ansiBlue, "["+strings.ToUpper(service[:3])+"]")
	}

	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i any) string {
			raw := strings.ToLower(fmt.Sprint(i))
			style, ok := levelStyles[raw]
			if !ok {
				style.tag = strings.ToUpper(raw)
			}
			return prefix + paint(style.color, "["+style.tag+"]")
		},
		FormatFieldName: func(i any) string { return fmt.Sprint(i) + ":" },
	}
}
