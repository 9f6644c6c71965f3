package session

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/mevdschee/axamltranslate/internal/locale"
)

const targetXML = `<?xml version="1.0" encoding="utf-8"?>
<ResourceDictionary xmlns="https://github.com/avaloniaui"
                    xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml">
  <ResourceDictionary.MergedDictionaries>
    <ResourceInclude Source="avares://SourceGit/Resources/Locales/en_US.axaml"/>
  </ResourceDictionary.MergedDictionaries>
  <x:String x:Key="A" xml:space="preserve">Hola</x:String>
</ResourceDictionary>
`

func init() {
	color.NoColor = true
}

// scriptedPrompter answers prompts from lines, then returns err (io.EOF if nil).
type scriptedPrompter struct {
	lines   []string
	err     error
	prompts int
}

func (s *scriptedPrompter) Prompt(label string) (string, error) {
	s.prompts++
	if len(s.lines) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type fakeTranslator struct {
	fail  map[string]bool
	calls int
	// cancel is called after the given number of calls when set.
	cancelAfter int
	cancel      context.CancelFunc
}

func (f *fakeTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	f.calls++
	if f.cancel != nil && f.calls == f.cancelAfter {
		f.cancel()
	}
	if f.fail[text] {
		return "", xerrors.Errorf("backend unavailable")
	}
	return "[" + from + ">" + to + "] " + text, nil
}

func setup(t *testing.T) (string, *locale.Document) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "es_ES.axaml")
	require.NoError(t, os.WriteFile(path, []byte(targetXML), 0644))
	doc, err := locale.Load(path, locale.DefaultNamespaces())
	require.NoError(t, err)
	return path, doc
}

func reload(t *testing.T, path string) map[string]string {
	t.Helper()
	doc, err := locale.Load(path, locale.DefaultNamespaces())
	require.NoError(t, err)
	return doc.Catalog().Strings
}

var reference = map[string]string{"A": "Hello", "B": "World", "C": "Bye", "D": "Later", "E": "Done"}

func TestEditorTranslateAndSkip(t *testing.T) {
	path, doc := setup(t)
	var out bytes.Buffer

	p := &scriptedPrompter{lines: []string{"Mundo", ""}}
	ed := &Editor{Out: &out, Prompter: p}
	res := ed.Run(context.Background(), doc, reference, []string{"B", "C"})

	require.Equal(t, []string{"B"}, res.Added)
	require.Equal(t, 1, res.Skipped)
	require.False(t, res.Quit)
	require.False(t, res.Interrupted)
	require.Equal(t, 2, p.prompts)

	s := out.String()
	require.Contains(t, s, "(1/2) Key: 'B'\nOriginal: 'World'\n")
	require.Contains(t, s, "(2/2) Key: 'C'\nOriginal: 'Bye'\n")
	require.Contains(t, s, "Added translation for 'B'")

	require.NoError(t, Finalize(&out, doc, path, res, locale.DefaultSaveOptions()))
	require.Contains(t, out.String(), "Saved changes to "+path)
	require.Equal(t, map[string]string{"A": "Hola", "B": "Mundo"}, reload(t, path))
}

func TestEditorQuit(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		added   []string
		skipped int
	}{
		{name: "lower case", lines: []string{"uno", "", "q", "never"}, added: []string{"B"}, skipped: 1},
		{name: "upper case", lines: []string{"Q"}, added: nil, skipped: 0},
		{name: "after two", lines: []string{"uno", "dos", "", "Q"}, added: []string{"B", "C"}, skipped: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, doc := setup(t)
			before, err := os.ReadFile(path)
			require.NoError(t, err)

			var out bytes.Buffer
			p := &scriptedPrompter{lines: tt.lines}
			res := (&Editor{Out: &out, Prompter: p}).Run(context.Background(), doc, reference, []string{"B", "C", "D", "E"})

			require.True(t, res.Quit)
			require.Equal(t, tt.added, res.Added)
			require.Equal(t, tt.skipped, res.Skipped)
			require.Contains(t, out.String(), "Quitting and saving changes...")

			require.NoError(t, Finalize(&out, doc, path, res, locale.DefaultSaveOptions()))
			if len(tt.added) == 0 {
				after, err := os.ReadFile(path)
				require.NoError(t, err)
				require.Equal(t, before, after)
				require.Contains(t, out.String(), "No changes were made.")
				return
			}
			require.Len(t, reload(t, path), 1+len(tt.added))
		})
	}
}

func TestEditorInterrupted(t *testing.T) {
	for _, stop := range []error{ErrInterrupted, io.EOF, xerrors.New("terminal gone")} {
		t.Run(stop.Error(), func(t *testing.T) {
			path, doc := setup(t)
			var out bytes.Buffer

			p := &scriptedPrompter{lines: []string{"Mundo"}, err: stop}
			res := (&Editor{Out: &out, Prompter: p}).Run(context.Background(), doc, reference, []string{"B", "C", "D"})

			require.True(t, res.Interrupted)
			require.Equal(t, []string{"B"}, res.Added)
			require.Contains(t, out.String(), "Process interrupted. Saving changes...")

			require.NoError(t, Finalize(&out, doc, path, res, locale.DefaultSaveOptions()))
			require.Equal(t, map[string]string{"A": "Hola", "B": "Mundo"}, reload(t, path))
		})
	}
}

func TestEditorNoChanges(t *testing.T) {
	path, doc := setup(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	var out bytes.Buffer
	p := &scriptedPrompter{lines: []string{"", ""}}
	res := (&Editor{Out: &out, Prompter: p}).Run(context.Background(), doc, reference, []string{"B", "C"})
	require.False(t, res.Changed())
	require.Equal(t, 2, res.Skipped)

	require.NoError(t, Finalize(&out, doc, path, res, locale.DefaultSaveOptions()))
	require.Contains(t, out.String(), "No changes were made.")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestEditorSuggestions(t *testing.T) {
	path, doc := setup(t)
	var out bytes.Buffer

	tr := &fakeTranslator{fail: map[string]bool{"Bye": true}}
	p := &scriptedPrompter{lines: []string{acceptSuggestion, "Adiós", "propio"}}
	ed := &Editor{Out: &out, Prompter: p, Suggester: tr, From: "en", To: "es"}
	res := ed.Run(context.Background(), doc, reference, []string{"B", "C", "D"})

	require.Equal(t, []string{"B", "C", "D"}, res.Added)
	require.Equal(t, 3, tr.calls)
	require.Contains(t, out.String(), "Suggestion: '[en>es] World'")
	require.NotContains(t, out.String(), "Suggestion: '[en>es] Bye'")

	require.NoError(t, Finalize(&out, doc, path, res, locale.DefaultSaveOptions()))
	require.Equal(t, map[string]string{
		"A": "Hola",
		"B": "[en>es] World",
		"C": "Adiós",
		"D": "propio",
	}, reload(t, path))
}

func TestAutoFill(t *testing.T) {
	path, doc := setup(t)
	var out, errOut bytes.Buffer

	ref := map[string]string{"A": "Hello", "B": "World", "C": "Bye", "D": "", "E": "Done"}
	tr := &fakeTranslator{fail: map[string]bool{"Bye": true}}
	af := &AutoFill{Out: &out, Err: &errOut, Translator: tr, From: "en", To: "es", Description: "es_ES.axaml"}
	res := af.Run(context.Background(), doc, ref, []string{"B", "C", "D", "E"})

	require.Equal(t, []string{"B", "E"}, res.Added)
	require.Equal(t, 2, res.Skipped)
	require.False(t, res.Interrupted)
	require.Equal(t, 3, tr.calls)
	require.Equal(t, "\nWarning: Translation failed for 'C': backend unavailable\n", errOut.String())
	require.NotContains(t, out.String(), "Warning")

	require.NoError(t, Finalize(&out, doc, path, res, locale.DefaultSaveOptions()))
	require.Equal(t, map[string]string{
		"A": "Hola",
		"B": "[en>es] World",
		"E": "[en>es] Done",
	}, reload(t, path))
}

func TestAutoFillCancelled(t *testing.T) {
	path, doc := setup(t)
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tr := &fakeTranslator{cancelAfter: 2, cancel: cancel}
	af := &AutoFill{Out: &out, Translator: tr, From: "en", To: "es"}
	res := af.Run(ctx, doc, reference, []string{"B", "C", "D", "E"})

	require.True(t, res.Interrupted)
	require.Equal(t, []string{"B", "C"}, res.Added)
	require.Equal(t, 2, tr.calls)

	require.NoError(t, Finalize(&out, doc, path, res, locale.DefaultSaveOptions()))
	require.Len(t, reload(t, path), 3)
}

func TestReport(t *testing.T) {
	var out bytes.Buffer
	Report(&out, []string{"B", "C"})
	require.Equal(t, "Missing keys:\n  - B\n  - C\n", out.String())
}

func TestReportDuplicates(t *testing.T) {
	var out bytes.Buffer
	ReportDuplicates(&out, "es_ES.axaml", locale.Catalog{Duplicates: []string{"A"}})
	require.Equal(t, "Warning: duplicate key 'A' in es_ES.axaml, the last occurrence is used\n", out.String())
}

func TestFinalizeUnindented(t *testing.T) {
	path, doc := setup(t)
	doc.AddString("B", "Mundo")

	var out bytes.Buffer
	require.NoError(t, Finalize(&out, doc, path, Result{Added: []string{"B"}}, locale.SaveOptions{Indent: false}))
	require.True(t, strings.HasPrefix(out.String(), "Warning: indentation is disabled."))
	require.Equal(t, map[string]string{"A": "Hola", "B": "Mundo"}, reload(t, path))
}

func TestTranslationLanguage(t *testing.T) {
	tests := []struct {
		code     string
		expected string
		wantErr  bool
	}{
		{code: "en_US", expected: "en"},
		{code: "de_DE", expected: "de"},
		{code: "pt_BR", expected: "pt"},
		{code: "zh_CN", expected: "zh-CN"},
		{code: "zh_TW", expected: "zh-TW"},
		{code: "es", expected: "es"},
		{code: "!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := TranslationLanguage(tt.code)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}
