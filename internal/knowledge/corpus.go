package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadCorpus reads the FAQ corpus from a JSON file: an array of
// {question, answer, source} records. A missing file is not an error; it
// yields an empty corpus and the sentinel answer path.
func LoadCorpus(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("knowledge: read corpus: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("knowledge: parse corpus: %w", err)
	}
	return entries, nil
}
