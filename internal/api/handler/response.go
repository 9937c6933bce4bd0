package handler

// apiResponse is the envelope returned by every account endpoint.
type apiResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func envelope(message string, data any) apiResponse {
	return apiResponse{Message: message, Data: data}
}
