package httpdto

type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// PageResponse is the envelope of every paginated listing.
type PageResponse[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

func NewPageResponse[T any](results []T, count int64, page, pageSize int) PageResponse[T] {
	if results == nil {
		results = []T{}
	}
	return PageResponse[T]{
		Count:    count,
		Page:     page,
		PageSize: pageSize,
		Results:  results,
	}
}
