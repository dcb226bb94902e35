package docstore

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

// resolve computes the body to store for a write. With Merge the new
// document is applied to the existing one as a JSON merge patch: fields it
// names win, other stored fields survive and arrays are replaced whole.
func resolve(existing []byte, found bool, doc []byte, opts domain.SetOptions) ([]byte, error) {
	if !json.Valid(doc) {
		return nil, fmt.Errorf("docstore: document is not valid JSON")
	}
	if !opts.Merge || !found {
		return doc, nil
	}

	merged, err := jsonpatch.MergePatch(existing, doc)
	if err != nil {
		return nil, fmt.Errorf("docstore: merge document: %w", err)
	}
	return merged, nil
}
