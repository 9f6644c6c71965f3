package locale

import "sort"

// MissingKeys returns the keys of reference that target lacks, sorted.
func MissingKeys(target, reference map[string]string) []string {
	var missing []string
	for key := range reference {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
