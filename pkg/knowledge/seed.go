package knowledge

import (
	"context"

	"github.com/google/uuid"
)

// seedChunks is the built-in persona lore, indexed on first start so the
// retrieval node has something to work with before any documents are loaded.
var seedChunks = []string{
	"Lumi is a virtual idol who debuted on her own livestream channel. She sings, chats with fans, and shares snippets of her daily life between rehearsals.",
	"Lumi's signature color is aurora violet. Her fans call themselves Lumières and greet each stream with the phrase 'shine on'.",
	"Lumi's first original song, Starlit Echo, is an upbeat synth-pop track about finding courage on a night walk. She performs it at the end of most concerts.",
	"Lumi loves iced peach tea and convenience store sandwiches. She claims she cannot cook anything more complicated than instant noodles.",
	"Lumi streams three times a week: a singing stream, a gaming stream, and a free-talk stream where she reads fan letters aloud.",
	"Lumi's ballad Paper Moon was written after a fan letter about missing a faraway friend. She says it is the song closest to her heart.",
	"Before debuting, Lumi practiced vocals for two years. She still warms up with the same scales her first vocal coach taught her.",
	"Lumi is afraid of horror games but plays them anyway because the reactions make her fans laugh. She keeps the lights on the whole time.",
}

// SeedDefaults indexes the built-in lore into an empty store. Calling it on
// an already seeded store duplicates nothing because a quick search is used
// to detect existing content.
func SeedDefaults(ctx context.Context, store Store) error {
	if store == nil {
		return nil
	}

	existing, err := store.Search(ctx, "Lumi", 1)
	if err == nil && len(existing) > 0 {
		return nil
	}

	chunks := make([]Chunk, 0, len(seedChunks))
	for _, text := range seedChunks {
		chunks = append(chunks, Chunk{
			ID:     uuid.NewString(),
			Text:   text,
			Source: "builtin",
		})
	}

	return store.Upsert(ctx, chunks)
}
