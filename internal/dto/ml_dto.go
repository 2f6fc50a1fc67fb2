package dto

import "github.com/basetopia/basetopia-backend/internal/translate"

type AgentQueryRequest struct {
	UserQuery     string `json:"user_query"`
	InputLanguage string `json:"input_language"`
}

type AgentQueryResponse struct {
	FinalResponse map[string]translate.Tree `json:"final_response"`
}

type AgentPostRequest struct {
	UserQuery string `json:"user_query"`
}
