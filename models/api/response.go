package apimodels

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ScrollerResponse carries one page and the total number of matching rows.
type ScrollerResponse struct {
	Response
	RowCount int64 `json:"row_count,omitempty"`
}

func NewResponse(data interface{}) Response {
	return Response{Status: StatusSuccess, Data: data}
}

func NewError(message string) Response {
	return Response{Status: StatusFail, Message: message}
}

func NewScrollerResponse(data interface{}, rowCount int64) ScrollerResponse {
	return ScrollerResponse{
		Response: NewResponse(data),
		RowCount: rowCount,
	}
}
