package headless

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// maxTaxQueryDepth bounds nesting of taxonomy query groups
const maxTaxQueryDepth = 10

// Taxonomy query relations, fields and operators
const (
	RelationAnd = "AND"
	RelationOr  = "OR"

	TermFieldID   = "term_id"
	TermFieldSlug = "slug"
	TermFieldName = "name"

	TaxOperatorIn        = "IN"
	TaxOperatorNotIn     = "NOT IN"
	TaxOperatorAnd       = "AND"
	TaxOperatorExists    = "EXISTS"
	TaxOperatorNotExists = "NOT EXISTS"
)

// TaxQuery is a boolean expression over taxonomy terms. A node is either a
// group (Relation + Clauses) or a leaf (Taxonomy + Field + Terms + Operator).
type TaxQuery struct {
	Relation string      `json:"relation,omitempty"`
	Clauses  []*TaxQuery `json:"clauses,omitempty"`
	Taxonomy string      `json:"taxonomy,omitempty"`
	Field    string      `json:"field,omitempty"`
	Terms    []string    `json:"terms,omitempty"`
	Operator string      `json:"operator,omitempty"`
}

// IsGroup reports whether the node combines sub-clauses
func (q *TaxQuery) IsGroup() bool {
	return len(q.Clauses) > 0
}

type rawTaxQuery struct {
	Relation string            `json:"relation"`
	Clauses  []json.RawMessage `json:"clauses"`
	Taxonomy string            `json:"taxonomy"`
	Field    string            `json:"field"`
	Terms    json.RawMessage   `json:"terms"`
	Operator string            `json:"operator"`
}

// DecodeTaxQuery parses the serialized taxonomy filter. A top-level JSON array
// is read as an AND group of its elements.
func DecodeTaxQuery(raw string) (*TaxQuery, error) {
	q, err := decodeTaxNode([]byte(raw), 1)
	if err != nil {
		return nil, newRequestError(ErrInvalidTaxonomyQuery, "tax_query", "tax_query is malformed: %v", err)
	}
	return q, nil
}

func decodeTaxNode(data []byte, depth int) (*TaxQuery, error) {
	if depth > maxTaxQueryDepth {
		return nil, fmt.Errorf("nesting deeper than %d levels", maxTaxQueryDepth)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty query")
	}

	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return decodeGroup(RelationAnd, items, depth)
	}

	var node rawTaxQuery
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, err
	}

	if len(node.Clauses) > 0 {
		if node.Taxonomy != "" {
			return nil, errors.New("node cannot be both a group and a clause")
		}
		return decodeGroup(node.Relation, node.Clauses, depth)
	}
	return decodeLeaf(node)
}

func decodeGroup(relation string, items []json.RawMessage, depth int) (*TaxQuery, error) {
	relation = strings.ToUpper(strings.TrimSpace(relation))
	if relation == "" {
		relation = RelationAnd
	}
	if relation != RelationAnd && relation != RelationOr {
		return nil, fmt.Errorf("unknown relation %q", relation)
	}
	if len(items) == 0 {
		return nil, errors.New("empty group")
	}

	group := &TaxQuery{Relation: relation}
	for _, item := range items {
		clause, err := decodeTaxNode(item, depth+1)
		if err != nil {
			return nil, err
		}
		group.Clauses = append(group.Clauses, clause)
	}
	return group, nil
}

func decodeLeaf(node rawTaxQuery) (*TaxQuery, error) {
	leaf := &TaxQuery{
		Taxonomy: strings.TrimSpace(node.Taxonomy),
		Field:    strings.TrimSpace(node.Field),
		Operator: strings.ToUpper(strings.TrimSpace(node.Operator)),
	}
	if leaf.Taxonomy == "" {
		return nil, errors.New("clause without taxonomy")
	}

	if leaf.Field == "" {
		leaf.Field = TermFieldID
	}
	switch leaf.Field {
	case TermFieldID, TermFieldSlug, TermFieldName:
	default:
		return nil, fmt.Errorf("unknown field %q", leaf.Field)
	}

	if leaf.Operator == "" {
		leaf.Operator = TaxOperatorIn
	}
	switch leaf.Operator {
	case TaxOperatorIn, TaxOperatorNotIn, TaxOperatorAnd, TaxOperatorExists, TaxOperatorNotExists:
	default:
		return nil, fmt.Errorf("unknown operator %q", leaf.Operator)
	}

	terms, err := decodeTerms(node.Terms)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 && leaf.Operator != TaxOperatorExists && leaf.Operator != TaxOperatorNotExists {
		return nil, fmt.Errorf("clause for %s has no terms", leaf.Taxonomy)
	}
	if leaf.Field == TermFieldID {
		for _, t := range terms {
			if _, err := strconv.ParseInt(t, 10, 64); err != nil {
				return nil, fmt.Errorf("term id %q is not a number", t)
			}
		}
	}
	leaf.Terms = terms
	return leaf, nil
}

// decodeTerms accepts a single string or number, or an array of them
func decodeTerms(data json.RawMessage) ([]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var values []interface{}
	if data[0] == '[' {
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, err
		}
	} else {
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		values = []interface{}{v}
	}

	terms := make([]string, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case string:
			terms = append(terms, t)
		case float64:
			terms = append(terms, strconv.FormatFloat(t, 'f', -1, 64))
		default:
			return nil, fmt.Errorf("unsupported term value %v", v)
		}
	}
	return terms, nil
}

// Match evaluates the query against the terms an item carries. termsOf
// returns the item's terms for one taxonomy.
func (q *TaxQuery) Match(termsOf func(taxonomy string) []*Term) bool {
	if q.IsGroup() {
		if q.Relation == RelationOr {
			for _, c := range q.Clauses {
				if c.Match(termsOf) {
					return true
				}
			}
			return false
		}
		for _, c := range q.Clauses {
			if !c.Match(termsOf) {
				return false
			}
		}
		return true
	}

	attached := termsOf(q.Taxonomy)
	switch q.Operator {
	case TaxOperatorExists:
		return len(attached) > 0
	case TaxOperatorNotExists:
		return len(attached) == 0
	}

	matched := 0
	for _, want := range q.Terms {
		for _, term := range attached {
			if q.termMatches(term, want) {
				matched++
				break
			}
		}
	}

	switch q.Operator {
	case TaxOperatorNotIn:
		return matched == 0
	case TaxOperatorAnd:
		return matched == len(q.Terms)
	default:
		return matched > 0
	}
}

func (q *TaxQuery) termMatches(term *Term, want string) bool {
	switch q.Field {
	case TermFieldSlug:
		return term.Slug == want
	case TermFieldName:
		return term.Name == want
	default:
		return strconv.FormatInt(term.ID, 10) == want
	}
}
