package bubble

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

type ConstraintType string

const (
	Equals           ConstraintType = "equals"
	NotEqual         ConstraintType = "not equal"
	IsEmpty          ConstraintType = "is_empty"
	IsNotEmpty       ConstraintType = "is_not_empty"
	TextContains     ConstraintType = "text contains"
	GreaterThan      ConstraintType = "greater than"
	LessThan         ConstraintType = "less than"
	In               ConstraintType = "in"
	NotIn            ConstraintType = "not in"
	Contains         ConstraintType = "contains"
	NotContains      ConstraintType = "not contains"
	EmptyList        ConstraintType = "empty"
	NotEmptyList     ConstraintType = "not empty"
	GeographicSearch ConstraintType = "geographic_search"
)

type Constraint struct {
	Key   string         `json:"key"`
	Type  ConstraintType `json:"constraint_type"`
	Value any            `json:"value,omitempty"`
}

// Query narrows a Data API list call. Zero values are left out of the request.
type Query struct {
	Constraints []Constraint
	Cursor      int
	Limit       int
	SortField   string
	Descending  bool
}

func (q Query) values() (url.Values, error) {
	v := url.Values{}
	if len(q.Constraints) > 0 {
		data, err := json.Marshal(q.Constraints)
		if err != nil {
			return nil, fmt.Errorf("unable to marshal constraints: %w", err)
		}
		v.Set("constraints", string(data))
	}
	if q.Cursor > 0 {
		v.Set("cursor", strconv.Itoa(q.Cursor))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortField != "" {
		v.Set("sort_field", q.SortField)
		v.Set("descending", strconv.FormatBool(q.Descending))
	}
	return v, nil
}

// Page is one slice of a list result. Results are left raw so callers decode their own types.
type Page struct {
	Cursor    int               `json:"cursor"`
	Results   []json.RawMessage `json:"results"`
	Count     int               `json:"count"`
	Remaining int               `json:"remaining"`
}

// Decode unmarshals every result into a new element of out, which must point to a slice.
func (p *Page) Decode(out any) error {
	data, err := json.Marshal(p.Results)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
