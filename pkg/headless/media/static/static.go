package static

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Resolver joins attachment keys onto a fixed base URL
type Resolver struct {
	base string
}

// New creates a resolver for the given base URL
func New(base string) (*Resolver, error) {
	if base == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", base)
	}
	return &Resolver{base: strings.TrimSuffix(base, "/")}, nil
}

func (r *Resolver) URL(ctx context.Context, key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", errors.New("empty media key")
	}
	return url.JoinPath(r.base, strings.Split(key, "/")...)
}
