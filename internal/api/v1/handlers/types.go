// Package handlers contains the HTTP handlers for the v1 API.
package handlers

// Slug identifies the outcome class of an API response
type Slug string

// Response slugs
const (
	SuccessSlug      Slug = "success"
	ErrorSlug        Slug = "error"
	InvalidInputSlug Slug = "invalid-input"
	UnauthorizedSlug Slug = "unauthorized"
	NotFoundSlug     Slug = "not-found"
	ServerErrorSlug  Slug = "server-error"
)

// Response is the envelope every v1 endpoint returns
type Response struct {
	Slug  Slug        `json:"slug"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

func errInvalidInput(msg string) Response {
	return Response{
		Slug:  InvalidInputSlug,
		Error: msg,
	}
}

func errUnauthorized(msg string) Response {
	return Response{
		Slug:  UnauthorizedSlug,
		Error: msg,
	}
}

func errNotFound(msg string) Response {
	return Response{
		Slug:  NotFoundSlug,
		Error: msg,
	}
}

func errServer(msg string) Response {
	return Response{
		Slug:  ServerErrorSlug,
		Error: msg,
	}
}
