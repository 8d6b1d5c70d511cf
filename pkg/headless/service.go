package headless

import (
	"context"
	"net/url"
	"strings"
)

// Service defines the read operations behind the headless routes
type Service interface {
	// GetPage resolves a hierarchical path to a formatted page
	GetPage(ctx context.Context, req PageRequest) (interface{}, error)

	// GetPost resolves a slug of a post type to a formatted item
	GetPost(ctx context.Context, req PostRequest) (interface{}, error)

	// GetArchive runs a paginated listing query
	GetArchive(ctx context.Context, req ArchiveRequest) (*ArchiveResponse, error)

	// GetOptions collects the fields of all options pages
	GetOptions(ctx context.Context, req OptionsRequest) (interface{}, error)
}

// PageRequest contains parameters for resolving a page
type PageRequest struct {
	Path string
	Lang string
}

// PostRequest contains parameters for resolving a post
type PostRequest struct {
	Slug     string
	PostType string
	Lang     string
}

// OptionsRequest contains parameters for reading options
type OptionsRequest struct {
	Lang string
}

// ParsePageRequest reads a PageRequest from query parameters
func ParsePageRequest(params url.Values) (PageRequest, error) {
	if err := Validate(params, "path"); err != nil {
		return PageRequest{}, err
	}
	return PageRequest{
		Path: params.Get("path"),
		Lang: strings.TrimSpace(params.Get("lang")),
	}, nil
}

// ParsePostRequest reads a PostRequest from query parameters
func ParsePostRequest(params url.Values) (PostRequest, error) {
	if err := Validate(params, "slug", "post_type"); err != nil {
		return PostRequest{}, err
	}
	return PostRequest{
		Slug:     params.Get("slug"),
		PostType: strings.TrimSpace(params.Get("post_type")),
		Lang:     strings.TrimSpace(params.Get("lang")),
	}, nil
}

// ParseOptionsRequest reads an OptionsRequest from query parameters
func ParseOptionsRequest(params url.Values) OptionsRequest {
	return OptionsRequest{Lang: strings.TrimSpace(params.Get("lang"))}
}
