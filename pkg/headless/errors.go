package headless

import (
	"errors"
	"fmt"
)

// Error kinds. Every request failure wraps exactly one of these.
var (
	// ErrMissingParameter indicates a required query parameter was not supplied
	ErrMissingParameter = errors.New("missing parameter")

	// ErrInvalidOrderBy indicates orderby is not one of the allowed values
	ErrInvalidOrderBy = errors.New("invalid orderby")

	// ErrInvalidOrderDirection indicates order is neither ASC nor DESC
	ErrInvalidOrderDirection = errors.New("invalid order direction")

	// ErrInvalidPageSize indicates posts_per_page is outside 1..100
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidPageNumber indicates paged is below 1
	ErrInvalidPageNumber = errors.New("invalid page number")

	// ErrUnknownType indicates the post type is not registered in the repository
	ErrUnknownType = errors.New("unknown post type")

	// ErrTypeExcluded indicates the post type is excluded from the route
	ErrTypeExcluded = errors.New("post type excluded")

	// ErrIncompleteOrderSpec indicates only one of orderby/order was supplied
	ErrIncompleteOrderSpec = errors.New("incomplete order parameters")

	// ErrMissingMetaKey indicates meta ordering was requested without meta_key
	ErrMissingMetaKey = errors.New("missing meta key")

	// ErrNotFound indicates no content matched the request
	ErrNotFound = errors.New("not found")

	// ErrFrontPageNotConfigured indicates the site has no front page setting
	ErrFrontPageNotConfigured = errors.New("front page not configured")

	// ErrInvalidTaxonomyQuery indicates tax_query could not be decoded
	ErrInvalidTaxonomyQuery = errors.New("invalid taxonomy query")

	// ErrSearchUnavailable indicates full-text search was requested without a provider
	ErrSearchUnavailable = errors.New("search unavailable")

	// ErrLocaleUnavailable indicates the locale is unknown or locales are not configured
	ErrLocaleUnavailable = errors.New("locale unavailable")

	// ErrLocaleCheckUnsupported indicates a locale was requested but cannot be verified
	ErrLocaleCheckUnsupported = errors.New("locale check unsupported")
)

var kindNames = map[error]string{
	ErrMissingParameter:       "MissingParameter",
	ErrInvalidOrderBy:         "InvalidOrderBy",
	ErrInvalidOrderDirection:  "InvalidOrderDirection",
	ErrInvalidPageSize:        "InvalidPageSize",
	ErrInvalidPageNumber:      "InvalidPageNumber",
	ErrUnknownType:            "UnknownType",
	ErrTypeExcluded:           "TypeExcluded",
	ErrIncompleteOrderSpec:    "IncompleteOrderSpec",
	ErrMissingMetaKey:         "MissingMetaKey",
	ErrNotFound:               "NotFound",
	ErrFrontPageNotConfigured: "FrontPageNotConfigured",
	ErrInvalidTaxonomyQuery:   "InvalidTaxonomyQuery",
	ErrSearchUnavailable:      "SearchUnavailable",
	ErrLocaleUnavailable:      "LocaleUnavailable",
	ErrLocaleCheckUnsupported: "LocaleCheckUnsupported",
}

// RequestError is a request-level failure. Message is what the client sees.
type RequestError struct {
	Err     error
	Param   string
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Param != "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Param)
	}
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func newRequestError(kind error, param string, format string, args ...interface{}) *RequestError {
	return &RequestError{
		Err:     kind,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

// Kind returns the name of the error kind wrapped by err, or "Internal" when
// err is not a request error.
func Kind(err error) string {
	for kind, name := range kindNames {
		if errors.Is(err, kind) {
			return name
		}
	}
	return "Internal"
}

// IsRequestError reports whether err is a client-facing request failure
// rather than a collaborator failure.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
