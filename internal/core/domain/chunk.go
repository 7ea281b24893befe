package domain

// Metadata keys carried by every chunk. These form the provenance contract
// between the chunker and the retrieval index.
const (
	// MetaSubjectName is the profile subject's display name.
	MetaSubjectName = "subject_name"

	// MetaSource is the origin locator (URL, file path, or SourceUploaded).
	MetaSource = "source"

	// MetaSourceType discriminates the ingestion path (see SourceType).
	MetaSourceType = "source_type"

	// MetaSection names the section a chunk was drawn from. All chunks
	// split from one section carry the same value.
	MetaSection = "section"
)

// InfoboxSection is the section label attached to the infobox chunk.
const InfoboxSection = "Infobox"

// Chunk is a bounded unit of text plus provenance metadata, the atomic unit
// indexed for retrieval. Chunks never span two sections; splitting happens
// within a section's text only.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// Text is the payload, prefixed with a human-readable header
	// ("Section: {name}" or "Character Information:") so the chunk is
	// self-describing out of context.
	Text string `json:"text"`

	// Metadata carries at minimum the Meta* keys above.
	Metadata map[string]string `json:"metadata"`

	// Sequence is the position in the final ordered chunk output.
	Sequence int `json:"sequence"`
}

// Section returns the section this chunk was drawn from.
func (c *Chunk) Section() string {
	return c.Metadata[MetaSection]
}

// ScoredChunk is a chunk returned from similarity retrieval.
type ScoredChunk struct {
	// Chunk is the retrieved chunk.
	Chunk Chunk

	// Similarity is the cosine similarity to the query (0-1).
	Similarity float32
}

// AnswerResult is the outcome of one retrieval-augmented answer.
type AnswerResult struct {
	// Text is the model's answer. When the retrieved context lacks the
	// needed information the prompt template instructs the model to answer
	// with an explicit "I don't know" sentinel; that contract lives in the
	// template, not in code.
	Text string

	// Retrieved holds the chunks used as context, in similarity-descending
	// order.
	Retrieved []ScoredChunk
}
