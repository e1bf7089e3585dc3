package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Pagination describes the position of a page inside a larger result set
type Pagination struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Pages       int   `json:"pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// PagedData wraps a page of results with its pagination metadata
type PagedData struct {
	Results    interface{} `json:"results"`
	Pagination Pagination  `json:"pagination"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Paged returns a success response wrapping one page of a list
func Paged(statusCode int, results interface{}, total int64, page, limit int) Response {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Success(statusCode, PagedData{
		Results: results,
		Pagination: Pagination{
			Total:       total,
			Page:        page,
			Pages:       pages,
			HasNext:     page < pages,
			HasPrevious: page > 1,
		},
	})
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
