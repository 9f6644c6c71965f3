package session

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/xerrors"

	"github.com/mevdschee/axamltranslate/internal/locale"
)

const (
	separator   = "----------------------------------------"
	inputPrompt = "Enter translation (or press Enter to skip, 'q' to save and quit): "

	// acceptSuggestion takes the machine suggestion as the translation.
	acceptSuggestion = "+"
)

// Result summarizes a session over the missing keys.
type Result struct {
	// Added lists the keys that received a translation, in order.
	Added       []string
	Skipped     int
	Quit        bool
	Interrupted bool
}

// Changed reports whether the target document was modified.
func (r Result) Changed() bool {
	return len(r.Added) > 0
}

// Editor asks the user for a translation of each missing key and adds the
// answers to the target document.
type Editor struct {
	Out      io.Writer
	Prompter Prompter

	// Suggester, when set, proposes a machine translation for every key.
	Suggester Translator
	From, To  string
}

// Run walks missing in order. Quitting, Ctrl-C and end of input all stop the
// loop early; entries accepted until then stay in target.
func (e *Editor) Run(ctx context.Context, target *locale.Document, reference map[string]string, missing []string) Result {
	var res Result
	added := color.New(color.FgGreen)

	for i, key := range missing {
		original := reference[key]

		fmt.Fprintln(e.Out, separator)
		fmt.Fprintf(e.Out, "(%d/%d) Key: '%s'\n", i+1, len(missing), key)
		fmt.Fprintf(e.Out, "Original: '%s'\n", original)

		suggestion := e.suggest(ctx, original)
		if suggestion != "" {
			fmt.Fprintf(e.Out, "Suggestion: '%s' (enter '%s' to accept)\n", suggestion, acceptSuggestion)
		}

		input, err := e.Prompter.Prompt(inputPrompt)
		if err != nil {
			if !xerrors.Is(err, ErrInterrupted) && !xerrors.Is(err, io.EOF) {
				log.Warnw("reading translation failed, stopping", "key", key, "error", err)
			}
			fmt.Fprintln(e.Out, "\n\nProcess interrupted. Saving changes...")
			res.Interrupted = true
			return res
		}

		if strings.EqualFold(input, "q") {
			fmt.Fprintln(e.Out, "\nQuitting and saving changes...")
			res.Quit = true
			return res
		}
		if input == acceptSuggestion && suggestion != "" {
			input = suggestion
		}
		if input == "" {
			res.Skipped++
			continue
		}

		target.AddString(key, input)
		res.Added = append(res.Added, key)
		added.Fprintf(e.Out, "Added translation for '%s'\n", key)
	}
	return res
}

func (e *Editor) suggest(ctx context.Context, text string) string {
	if e.Suggester == nil || text == "" {
		return ""
	}
	out, err := e.Suggester.Translate(ctx, text, e.From, e.To)
	if err != nil {
		log.Warnw("no suggestion available", "error", err)
		return ""
	}
	return out
}
