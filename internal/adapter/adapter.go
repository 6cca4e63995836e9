package adapter

import (
	"github.com/akolanti/RAGChat/internal/api"
	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/session"
)

func ToQueryResponse(result docModel.QueryResult) api.QueryResponse {
	return api.QueryResponse{
		Response: result.Answer,
		Thought:  result.Thought,
	}
}

func ToConversationResponse(state session.ConversationState) api.ConversationResponse {
	return api.ConversationResponse{
		UserId: state.UserId,
		User:   state.Messages.User,
		AI:     state.Messages.AI,
	}
}

func BadRequest(message string) api.ErrorResponse {
	return api.ErrorResponse{Error: message}
}
