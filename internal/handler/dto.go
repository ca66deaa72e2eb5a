package handler

type ChatRequest struct {
	Text string `json:"text" binding:"required"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Backend  string `json:"backend"`
}
