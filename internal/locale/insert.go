package locale

// NodeKind classifies a child of the root element for entry placement.
type NodeKind int

const (
	OtherNode NodeKind = iota
	// TextNode is character data between elements, usually indentation.
	TextNode
	StringNode
	MergedDictionariesNode
)

// Placement describes where a new string entry goes in the root's child list.
type Placement struct {
	// Index is the position the new entry is inserted at.
	Index int
	// TailFrom is the index (before insertion) of the text node whose content
	// follows the new entry, or -1.
	TailFrom int
	// DefaultTail is set when the entry is appended without an anchor and
	// should be followed by the default indentation.
	DefaultTail bool
}

// PlaceEntry picks the position for a new entry: right after the last String
// or MergedDictionaries node, past that node's trailing text so the new entry
// inherits the same indentation. Without either anchor the entry is appended.
func PlaceEntry(kinds []NodeKind) Placement {
	anchor := -1
	for i := len(kinds) - 1; i >= 0; i-- {
		if kinds[i] == StringNode || kinds[i] == MergedDictionariesNode {
			anchor = i
			break
		}
	}

	if anchor < 0 {
		return Placement{Index: len(kinds), TailFrom: -1, DefaultTail: true}
	}
	if anchor+1 < len(kinds) && kinds[anchor+1] == TextNode {
		return Placement{Index: anchor + 2, TailFrom: anchor + 1}
	}
	return Placement{Index: anchor + 1, TailFrom: -1}
}
