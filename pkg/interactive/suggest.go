package interactive

import "path/filepath"

// suggestFiles expands a partial path into glob matches for prompt completion.
func suggestFiles(toComplete string) []string {
	matches, err := filepath.Glob(toComplete + "*")
	if err != nil {
		return nil
	}

	return matches
}
