package api

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse carries a parsed model answer back to the caller. Thought is
// the model's reasoning section, exposed for debugging clients.
type QueryResponse struct {
	Response string `json:"response"`
	Thought  string `json:"thought"`
}

// ConversationResponse is the transcript export returned by GET /conversation.
type ConversationResponse struct {
	UserId string   `json:"userId"`
	User   []string `json:"user"`
	AI     []string `json:"ai"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
