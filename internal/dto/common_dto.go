package dto

// ErrorResponse carries a single error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries every validation message that applies to
// a payload, in order.
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
}

type MetaResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Status      string            `json:"status"`
	Environment string            `json:"environment"`
	Endpoints   map[string]string `json:"endpoints"`
}
