package headless

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// OrderByValues is the allow-list for the orderby parameter
var OrderByValues = []string{
	"none",
	"ID",
	"author",
	"title",
	"date",
	"modified",
	"parent",
	"rand",
	"comment_count",
	"menu_order",
	"meta_value",
	"meta_value_num",
	"post__in",
}

var (
	validate     *validator.Validate
	validateOnce sync.Once

	orderByRule    = "oneof=" + strings.Join(OrderByValues, " ")
	orderRule      = "oneof=" + OrderAsc + " " + OrderDesc
	pageSizeRule   = fmt.Sprintf("min=%d,max=%d", MinPageSize, MaxPageSize)
	pageNumberRule = "min=1"
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate fails with ErrMissingParameter for the first required key that is
// absent from params. A key given with an empty value counts as present.
func Validate(params url.Values, required ...string) error {
	for _, key := range required {
		if _, ok := params[key]; !ok {
			return newRequestError(ErrMissingParameter, key, "%s not specified in GET-params", key)
		}
	}
	return nil
}

// ValidateOrderBy fails unless orderby is in OrderByValues
func ValidateOrderBy(orderby string) error {
	if err := getValidator().Var(orderby, orderByRule); err != nil {
		return newRequestError(ErrInvalidOrderBy, "orderby", "orderby=%s is not acceptable param", orderby)
	}
	return nil
}

// ValidateOrderDirection normalizes order to ASC or DESC
func ValidateOrderDirection(order string) (string, error) {
	normalized := strings.ToUpper(order)
	if err := getValidator().Var(normalized, orderRule); err != nil {
		return "", newRequestError(ErrInvalidOrderDirection, "order", "Order param can only be ASC or DESC")
	}
	return normalized, nil
}

// ValidatePageSize fails unless 1 <= n <= 100
func ValidatePageSize(n int) error {
	if err := getValidator().Var(n, pageSizeRule); err != nil {
		return newRequestError(ErrInvalidPageSize, "posts_per_page",
			"posts_per_page needs to be a number between %d and %d", MinPageSize, MaxPageSize)
	}
	return nil
}

// ValidatePageNumber fails unless n >= 1
func ValidatePageNumber(n int) error {
	if err := getValidator().Var(n, pageNumberRule); err != nil {
		return newRequestError(ErrInvalidPageNumber, "paged", "paged needs to be a number of 1 or above")
	}
	return nil
}

// ParsePageSize parses and validates posts_per_page
func ParsePageSize(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, newRequestError(ErrInvalidPageSize, "posts_per_page",
			"posts_per_page needs to be a number between %d and %d", MinPageSize, MaxPageSize)
	}
	return n, ValidatePageSize(n)
}

// ParsePageNumber parses and validates paged
func ParsePageNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, newRequestError(ErrInvalidPageNumber, "paged", "paged needs to be a number of 1 or above")
	}
	return n, ValidatePageNumber(n)
}

// IsMetaOrder reports whether orderby sorts on a meta field
func IsMetaOrder(orderby string) bool {
	return orderby == "meta_value" || orderby == "meta_value_num"
}

// CheckExcluded fails with ErrTypeExcluded when postType is in excluded
func CheckExcluded(postType string, excluded []string) error {
	for _, t := range excluded {
		if t == postType {
			return newRequestError(ErrTypeExcluded, "post_type", "Post_type '%s' is excluded from routes", postType)
		}
	}
	return nil
}

// ValidateType checks the exclusion list first, then asks the repository
// whether the type is registered.
func ValidateType(ctx context.Context, repo Repository, postType string, excluded []string) error {
	if err := CheckExcluded(postType, excluded); err != nil {
		return err
	}
	exists, err := repo.TypeExists(ctx, postType)
	if err != nil {
		return fmt.Errorf("failed to check post type %s: %w", postType, err)
	}
	if !exists {
		return newRequestError(ErrUnknownType, "post_type", "post_type '%s' wasn't found on system", postType)
	}
	return nil
}
