package tools

import "github.com/lumilabs/lumi/pkg/storage"

// NewDefaultRegistry creates a registry with the built-in tools wired to the
// given store.
func NewDefaultRegistry(store storage.Store) (*Registry, error) {
	r := NewRegistry()

	for _, tool := range []Tool{
		NewScheduleTool(store),
		NewFanLetterTool(store),
		NewSongTool(store),
		NewProfileTool(store),
	} {
		if err := r.Register(tool); err != nil {
			return nil, err
		}
	}

	return r, nil
}
