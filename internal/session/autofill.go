package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mevdschee/axamltranslate/internal/locale"
)

// AutoFill machine-translates every missing key.
type AutoFill struct {
	Out io.Writer
	// Err receives per-key warnings. Defaults to os.Stderr.
	Err        io.Writer
	Translator Translator
	From, To   string
	// Delay is the pause between two translation requests.
	Delay time.Duration
	// Description labels the progress bar, usually the target file name.
	Description string
}

// Run translates missing in order and adds every result to target. A failed
// translation is reported and skipped. Cancelling ctx stops the loop and
// keeps what was translated so far.
func (a *AutoFill) Run(ctx context.Context, target *locale.Document, reference map[string]string, missing []string) Result {
	var res Result

	bar := progressbar.NewOptions(len(missing),
		progressbar.OptionSetWriter(a.Out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", a.Description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	for i, key := range missing {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}

		original := reference[key]
		if original == "" {
			res.Skipped++
			_ = bar.Add(1)
			continue
		}

		translated, err := a.Translator.Translate(ctx, original, a.From, a.To)
		if err != nil {
			if ctx.Err() != nil {
				res.Interrupted = true
				break
			}
			fmt.Fprintf(a.errOut(), "\nWarning: Translation failed for '%s': %v\n", key, err)
			res.Skipped++
			_ = bar.Add(1)
			continue
		}

		target.AddString(key, translated)
		res.Added = append(res.Added, key)
		_ = bar.Add(1)

		// Rate limiting
		if i < len(missing)-1 && !sleep(ctx, a.Delay) {
			res.Interrupted = true
			break
		}
	}

	fmt.Fprintln(a.Out) // New line after progress bar
	if res.Interrupted {
		fmt.Fprintln(a.Out, "Process interrupted. Saving changes...")
	}
	return res
}

func (a *AutoFill) errOut() io.Writer {
	if a.Err != nil {
		return a.Err
	}
	return os.Stderr
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
