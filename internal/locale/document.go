// Package locale reads, diffs and edits Avalonia .axaml resource dictionaries
// that hold translated strings.
package locale

import (
	"bytes"

	"github.com/beevik/etree"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

var log = logging.Logger("locale")

const (
	// AvaloniaNamespace is the default namespace of resource dictionary elements.
	AvaloniaNamespace = "https://github.com/avaloniaui"
	// XAMLNamespace holds x:String and x:Key.
	XAMLNamespace = "http://schemas.microsoft.com/winfx/2006/xaml"

	// FileExt is the extension shared by all locale files.
	FileExt = ".axaml"

	stringTag  = "String"
	keyAttr    = "Key"
	mergedTag  = "ResourceDictionary.MergedDictionaries"
	includeTag = "ResourceInclude"
	sourceAttr = "Source"

	defaultTail = "\n  "
	declaration = `version="1.0" encoding="utf-8"`
)

// Namespaces tells the loader which namespace URIs identify string entries
// and how to bind them when writing the document back.
type Namespaces struct {
	// Default is bound to the unprefixed xmlns attribute.
	Default string
	// Key is the namespace of String elements and their Key attribute.
	Key string
	// KeyPrefix is used for new entries when the document does not
	// already bind a prefix to Key.
	KeyPrefix string
}

func DefaultNamespaces() Namespaces {
	return Namespaces{
		Default:   AvaloniaNamespace,
		Key:       XAMLNamespace,
		KeyPrefix: "x",
	}
}

// SaveOptions controls how Save formats the document.
type SaveOptions struct {
	Indent       bool
	IndentSpaces int
}

func DefaultSaveOptions() SaveOptions {
	return SaveOptions{Indent: true, IndentSpaces: 2}
}

// Document is a parsed locale file.
type Document struct {
	doc       *etree.Document
	ns        Namespaces
	keyPrefix string
}

// Load parses the locale file at path. Comments and element order are kept.
func Load(path string, ns Namespaces) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, xerrors.Errorf("parsing %s: %w", path, err)
	}
	d, err := newDocument(doc, ns)
	if err != nil {
		return nil, xerrors.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}

// Parse is Load for in-memory data.
func Parse(data []byte, ns Namespaces) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, xerrors.Errorf("parsing document: %w", err)
	}
	return newDocument(doc, ns)
}

func newDocument(doc *etree.Document, ns Namespaces) (*Document, error) {
	root := doc.Root()
	if root == nil {
		return nil, xerrors.New("document has no root element")
	}

	d := &Document{doc: doc, ns: ns, keyPrefix: ns.KeyPrefix}
	for _, a := range root.Attr {
		if a.Space == "xmlns" && a.Value == ns.Key {
			d.keyPrefix = a.Key
			break
		}
	}
	return d, nil
}

// Root returns the root element of the document.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Namespaces returns the namespace configuration the document was loaded with.
func (d *Document) Namespaces() Namespaces {
	return d.ns
}

// Catalog extracts the string entries of the document.
func (d *Document) Catalog() Catalog {
	return Extract(d.doc.Root(), d.ns)
}

// AddString inserts a new string entry. It is placed right after the last
// existing entry (or the merged dictionaries declaration) and copies that
// sibling's trailing whitespace.
func (d *Document) AddString(key, text string) {
	d.bindNamespaces()

	el := etree.NewElement(qualify(d.keyPrefix, stringTag))
	el.CreateAttr(qualify(d.keyPrefix, keyAttr), key)
	el.CreateAttr("xml:space", "preserve")
	el.SetText(text)

	root := d.doc.Root()
	kinds := make([]NodeKind, len(root.Child))
	for i, t := range root.Child {
		kinds[i] = d.kindOf(t)
	}

	p := PlaceEntry(kinds)
	var tail string
	switch {
	case p.TailFrom >= 0:
		tail = root.Child[p.TailFrom].(*etree.CharData).Data
	case p.DefaultTail:
		tail = defaultTail
	}

	root.InsertChildAt(p.Index, el)
	if tail != "" {
		root.InsertChildAt(p.Index+1, etree.NewText(tail))
	}
	log.Debugw("added string entry", "key", key, "index", p.Index)
}

func (d *Document) kindOf(t etree.Token) NodeKind {
	switch n := t.(type) {
	case *etree.CharData:
		return TextNode
	case *etree.Element:
		switch {
		case isString(n, d.ns):
			return StringNode
		case n.Tag == mergedTag && n.NamespaceURI() == d.ns.Default:
			return MergedDictionariesNode
		}
	}
	return OtherNode
}

func isString(el *etree.Element, ns Namespaces) bool {
	return el.Tag == stringTag && el.NamespaceURI() == ns.Key
}

// Save writes the document to path with an XML declaration, binding the
// configured namespaces on the root if they are missing.
func (d *Document) Save(path string, opts SaveOptions) error {
	d.prepare(opts)
	if err := d.doc.WriteToFile(path); err != nil {
		return xerrors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Bytes serializes the document the same way Save does.
func (d *Document) Bytes(opts SaveOptions) ([]byte, error) {
	d.prepare(opts)
	var buf bytes.Buffer
	if _, err := d.doc.WriteTo(&buf); err != nil {
		return nil, xerrors.Errorf("serializing document: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) prepare(opts SaveOptions) {
	d.bindNamespaces()
	d.ensureDeclaration()

	// Leave quotes and apostrophes in text alone.
	d.doc.WriteSettings.CanonicalText = true
	d.doc.WriteSettings.CanonicalAttrVal = true

	if !opts.Indent {
		log.Warn("indentation disabled, writing document unindented")
		return
	}
	s := etree.NewIndentSettings()
	s.Spaces = opts.IndentSpaces
	s.PreserveLeafWhitespace = true
	d.doc.IndentWithSettings(s)
}

func (d *Document) bindNamespaces() {
	root := d.doc.Root()
	if d.ns.Default != "" && root.SelectAttr("xmlns") == nil {
		root.CreateAttr("xmlns", d.ns.Default)
	}
	if d.keyPrefix != "" && root.SelectAttr("xmlns:"+d.keyPrefix) == nil {
		root.CreateAttr("xmlns:"+d.keyPrefix, d.ns.Key)
	}
}

func (d *Document) ensureDeclaration() {
	for _, t := range d.doc.Child {
		if p, ok := t.(*etree.ProcInst); ok && p.Target == "xml" {
			return
		}
	}
	d.doc.InsertChildAt(0, etree.NewProcInst("xml", declaration))
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

func attrValue(el *etree.Element, space, key string) (string, bool) {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key != key {
			continue
		}
		if space == "" && a.Space == "" {
			return a.Value, true
		}
		if space != "" && a.NamespaceURI() == space {
			return a.Value, true
		}
	}
	return "", false
}

func childElement(el *etree.Element, space, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag && c.NamespaceURI() == space {
			return c
		}
	}
	return nil
}
