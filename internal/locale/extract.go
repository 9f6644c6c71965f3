package locale

import (
	"github.com/beevik/etree"
)

// Entry is a single translated string.
type Entry struct {
	Key  string
	Text string
}

// Catalog holds the string entries of one locale file.
type Catalog struct {
	// Strings maps key to text. The last occurrence of a key wins.
	Strings map[string]string
	// Entries lists the entries in document order, duplicates included.
	Entries []Entry
	// Duplicates lists keys that occur more than once, in order of their
	// second occurrence.
	Duplicates []string
}

// Extract collects the String children of root that carry a Key attribute
// in the key namespace. Entries without text map to the empty string.
func Extract(root *etree.Element, ns Namespaces) Catalog {
	c := Catalog{Strings: make(map[string]string)}
	if root == nil {
		return c
	}

	seen := make(map[string]int)
	for _, el := range root.ChildElements() {
		if !isString(el, ns) {
			continue
		}
		key, _ := attrValue(el, ns.Key, keyAttr)
		if key == "" {
			continue
		}

		text := el.Text()
		seen[key]++
		if seen[key] == 2 {
			c.Duplicates = append(c.Duplicates, key)
		}
		c.Strings[key] = text
		c.Entries = append(c.Entries, Entry{Key: key, Text: text})
	}

	for _, key := range c.Duplicates {
		log.Warnw("duplicate string key, last occurrence wins", "key", key, "count", seen[key])
	}
	return c
}
