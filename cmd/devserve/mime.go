package main

import (
	"flag"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/Kush-Singh-26/devserve/internal/config"
	"github.com/Kush-Singh-26/devserve/internal/mimetable"
)

// handleMimeCommand prints the content type served for each path argument
// and returns the process exit code.
func handleMimeCommand(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("mime", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Path to a devserve.yaml file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		_, _ = fmt.Fprintln(out, "Usage: devserve mime [-config file] <path>...")
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(out, "❌ Error: %v\n", err)
		return 1
	}
	table := mimetable.New(cfg.MimeTypes)

	for _, p := range fs.Args() {
		p = filepath.ToSlash(p)
		ext := path.Ext(p)
		ctype, known := table.Lookup(ext)
		if !known {
			ctype = mimetable.Fallback + " (fallback)"
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\n", p, ctype)
	}
	return 0
}
