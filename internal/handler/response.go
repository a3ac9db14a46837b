package handler

// Response is the envelope every JSON endpoint renders. Error bodies
// come from the error-handling middleware instead, which is why only
// the success constructor lives here.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}
