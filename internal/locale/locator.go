package locale

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/xerrors"
)

// referencePattern pulls the locale code out of a ResourceInclude source such
// as "avares://SourceGit/Resources/Locales/en_US.axaml".
var referencePattern = regexp.MustCompile(`([a-zA-Z]{2}_[a-zA-Z]{2})\.axaml`)

// Reason identifies why resolving a locale pair failed.
type Reason int

const (
	InvalidLanguage Reason = iota + 1
	TargetNotFound
	TargetUnparsable
	MissingMergedDictionaries
	MissingResourceInclude
	BadReferenceSource
	ReferenceNotFound
)

func (r Reason) String() string {
	switch r {
	case InvalidLanguage:
		return "invalid language identifier"
	case TargetNotFound:
		return "target not found"
	case TargetUnparsable:
		return "target unparsable"
	case MissingMergedDictionaries:
		return "missing MergedDictionaries"
	case MissingResourceInclude:
		return "missing ResourceInclude"
	case BadReferenceSource:
		return "bad reference source"
	case ReferenceNotFound:
		return "reference not found"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// ResolveError is returned by Resolve.
type ResolveError struct {
	Reason Reason
	// Path is the file the failure refers to.
	Path string
	Err  error
}

func (e *ResolveError) Error() string {
	var msg string
	switch e.Reason {
	case InvalidLanguage:
		msg = fmt.Sprintf("invalid language identifier %q", e.Path)
	case TargetNotFound:
		msg = fmt.Sprintf("target language file not found at %s", e.Path)
	case ReferenceNotFound:
		msg = fmt.Sprintf("reference language file '%s' not found", e.Path)
	default:
		msg = fmt.Sprintf("error parsing %s to find reference file", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Paths is a resolved target/reference pair.
type Paths struct {
	Lang      string
	Target    string
	Reference string
	// ReferenceCode is the locale code found in the target's ResourceInclude,
	// e.g. "en_US".
	ReferenceCode string
}

// TargetPath returns the locale file for lang inside dir.
func TargetPath(dir, lang string) string {
	return filepath.Join(dir, lang+FileExt)
}

// Resolve finds the target file for lang and the reference file the target
// declares through its merged dictionaries.
func Resolve(dir, lang string, ns Namespaces) (Paths, error) {
	if lang == "" || strings.ContainsAny(lang, `/\`) || lang == "." || lang == ".." {
		return Paths{}, &ResolveError{Reason: InvalidLanguage, Path: lang}
	}

	p := Paths{Lang: lang, Target: TargetPath(dir, lang)}
	if _, err := os.Stat(p.Target); err != nil {
		return Paths{}, &ResolveError{Reason: TargetNotFound, Path: p.Target}
	}

	doc, err := Load(p.Target, ns)
	if err != nil {
		return Paths{}, &ResolveError{Reason: TargetUnparsable, Path: p.Target, Err: err}
	}

	code, err := ReferenceCode(doc)
	if err != nil {
		var re *ResolveError
		if xerrors.As(err, &re) {
			re.Path = p.Target
		}
		return Paths{}, err
	}

	p.ReferenceCode = code
	p.Reference = filepath.Join(dir, code+FileExt)
	if _, err := os.Stat(p.Reference); err != nil {
		return Paths{}, &ResolveError{Reason: ReferenceNotFound, Path: p.Reference}
	}

	log.Debugw("resolved locale files", "target", p.Target, "reference", p.Reference)
	return p, nil
}

// ReferenceCode reads the locale code of the reference file declared by doc.
func ReferenceCode(doc *Document) (string, error) {
	ns := doc.Namespaces()

	merged := childElement(doc.Root(), ns.Default, mergedTag)
	if merged == nil {
		return "", &ResolveError{Reason: MissingMergedDictionaries, Err: xerrors.New("could not find MergedDictionaries tag")}
	}
	include := childElement(merged, ns.Default, includeTag)
	if include == nil {
		return "", &ResolveError{Reason: MissingResourceInclude, Err: xerrors.New("could not find ResourceInclude tag")}
	}

	source, _ := attrValue(include, "", sourceAttr)
	m := referencePattern.FindStringSubmatch(source)
	if m == nil {
		return "", &ResolveError{Reason: BadReferenceSource, Err: xerrors.Errorf("could not parse reference filename from Source attribute %q", source)}
	}
	return m[1], nil
}
