package docModel

// MetaSource and MetaPage are the metadata keys every loader fills in.
// Page numbers are 0-based.
const (
	MetaSource = "source"
	MetaPage   = "page"
)

// Document is an immutable unit of raw content produced by a loader.
// For paginated sources there is one Document per page.
type Document struct {
	Content  string
	Metadata map[string]string
}

// Chunk is a bounded slice of a Document's content and the unit of indexing.
// Metadata is inherited from the parent Document.
type Chunk struct {
	Id       string
	Content  string
	Metadata map[string]string
	Source   string
}

type DocKind string

const (
	KindPDF  DocKind = "pdf"
	KindText DocKind = "text"
	KindCSV  DocKind = "csv"
	KindDocx DocKind = "docx"
)

type ChunkMethod string

const (
	MethodToken     ChunkMethod = "token"
	MethodRecursive ChunkMethod = "recursive"
)

type SearchMode string

const (
	SearchSimilarity     SearchMode = "similarity"
	SearchHybrid         SearchMode = "hybrid"
	SearchSemanticHybrid SearchMode = "semantic_hybrid"
)

// QueryResult is the parsed two-section model output. Ephemeral - it lives
// only for the duration of one request unless the caller exports it.
type QueryResult struct {
	Answer  string `json:"answer"`
	Thought string `json:"thought"`
}

// QueryStep tracks where a single query currently is. Steps are never
// retried - the whole operation is at-most-once per call.
type QueryStep string

const (
	StepReceived    QueryStep = "RECEIVED"
	StepRetrieving  QueryStep = "RETRIEVING"
	StepPrompting   QueryStep = "PROMPTING"
	StepGenerating  QueryStep = "GENERATING"
	StepParsing     QueryStep = "PARSING"
	StepAnswered    QueryStep = "ANSWERED"
	StepParseFailed QueryStep = "PARSE_FAILED"
)
