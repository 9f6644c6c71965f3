package session

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mevdschee/axamltranslate/internal/locale"
)

// Report prints the missing keys, one per line. It never touches any file.
func Report(w io.Writer, missing []string) {
	fmt.Fprintln(w, "Missing keys:")
	for _, key := range missing {
		fmt.Fprintf(w, "  - %s\n", key)
	}
}

// ReportDuplicates warns about keys that occur more than once in a file.
func ReportDuplicates(w io.Writer, path string, c locale.Catalog) {
	warn := color.New(color.FgYellow)
	for _, key := range c.Duplicates {
		warn.Fprintf(w, "Warning: duplicate key '%s' in %s, the last occurrence is used\n", key, path)
	}
}

// Finalize saves target to path if res changed it, and reports the outcome.
func Finalize(w io.Writer, target *locale.Document, path string, res Result, opts locale.SaveOptions) error {
	if !res.Changed() {
		fmt.Fprintln(w, "\nNo changes were made.")
		return nil
	}

	if !opts.Indent {
		color.New(color.FgYellow).Fprintln(w, "Warning: indentation is disabled. Output formatting may not be ideal.")
	}
	if err := target.Save(path, opts); err != nil {
		return err
	}

	log.Infow("saved translations", "path", path, "added", len(res.Added), "skipped", res.Skipped)
	fmt.Fprintf(w, "\nSaved changes to %s\n", path)
	return nil
}
