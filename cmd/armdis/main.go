// Command armdis disassembles ARM and Thumb machine code from ELF files, raw
// images, hex words on the command line and address traces.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	_ "net/http/pprof"

	"armdis/internal/armdis/cmd"
	"armdis/internal/armdis/log"
)

const defaultProfileAddr = "localhost:6060"

// profileAddr maps ARMDIS_PROFILE to a listen address. Any value that is not
// a host:port, such as "1", selects the default.
func profileAddr(env string) string {
	if env == "" {
		return ""
	}
	if strings.Contains(env, ":") {
		return env
	}
	return defaultProfileAddr
}

func main() {
	defer log.RecoverPanic("armdis", func() {
		slog.Error("armdis aborted by a panic")
	})

	if addr := profileAddr(os.Getenv("ARMDIS_PROFILE")); addr != "" {
		go func() {
			defer log.RecoverPanic("pprof", nil)
			slog.Info("pprof listening", "addr", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				slog.Error("pprof server stopped", "addr", addr, "error", err)
			}
		}()
	}

	cmd.Execute()
}
