package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// WriteResponse reports where a written document landed
type WriteResponse struct {
	Collection string `json:"collection"`
	Index      string `json:"index"`
	ID         string `json:"id"`
	Routing    string `json:"routing,omitempty"`

	// Generated is true when the store assigned the document id
	Generated bool `json:"generated,omitempty"`
}

// DocumentResponse represents one stored document
type DocumentResponse struct {
	Index    string         `json:"index"`
	ID       string         `json:"id"`
	Routing  string         `json:"routing,omitempty"`
	Document map[string]any `json:"document"`
}

// QueryResponse represents a time-range query result
type QueryResponse struct {
	Collection string             `json:"collection"`
	StartAt    int64              `json:"start_at"`
	EndAt      int64              `json:"end_at"`
	Selectors  []string           `json:"selectors"`
	Documents  []DocumentResponse `json:"documents"`
	Count      int                `json:"count"`
}

// SelectorsResponse exposes the resolved index selectors for a time range
type SelectorsResponse struct {
	Collection string   `json:"collection"`
	StartAt    int64    `json:"start_at"`
	EndAt      int64    `json:"end_at"`
	Selectors  []string `json:"selectors"`
	Count      int      `json:"count"`
}

// IndicesResponse lists the concrete indices holding a collection's documents
type IndicesResponse struct {
	Collection string   `json:"collection"`
	Indices    []string `json:"indices"`
	Count      int      `json:"count"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
