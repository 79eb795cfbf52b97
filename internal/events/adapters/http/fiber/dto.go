package fiber

type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_event"`
	Message string `json:"message" example:"item index must be non-negative"`
}
