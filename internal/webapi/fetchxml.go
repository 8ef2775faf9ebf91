package webapi

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Fetch is a FetchXML query.
type Fetch struct {
	XMLName  xml.Name    `xml:"fetch"`
	Version  string      `xml:"version,attr,omitempty"`
	Mapping  string      `xml:"mapping,attr,omitempty"`
	Distinct bool        `xml:"distinct,attr,omitempty"`
	Top      int         `xml:"top,attr,omitempty"`
	Entity   FetchEntity `xml:"entity"`
}

// FetchEntity is the root entity of a query.
type FetchEntity struct {
	Name       string       `xml:"name,attr"`
	Attributes []Attribute  `xml:"attribute"`
	Orders     []Order      `xml:"order"`
	Filters    []Filter     `xml:"filter"`
	Links      []LinkEntity `xml:"link-entity"`
}

// Attribute selects a column.
type Attribute struct {
	Name  string `xml:"name,attr"`
	Alias string `xml:"alias,attr,omitempty"`
}

// Order sorts by a column.
type Order struct {
	Attribute  string `xml:"attribute,attr"`
	Descending bool   `xml:"descending,attr,omitempty"`
}

// Filter groups conditions with "and" or "or".
type Filter struct {
	Type       string      `xml:"type,attr,omitempty"`
	Conditions []Condition `xml:"condition"`
	Filters    []Filter    `xml:"filter"`
}

// Condition compares a column against a value.
type Condition struct {
	Attribute string `xml:"attribute,attr"`
	Operator  string `xml:"operator,attr"`
	Value     string `xml:"value,attr,omitempty"`
}

// LinkEntity joins a related entity.
type LinkEntity struct {
	Name       string       `xml:"name,attr"`
	From       string       `xml:"from,attr"`
	To         string       `xml:"to,attr"`
	Alias      string       `xml:"alias,attr,omitempty"`
	LinkType   string       `xml:"link-type,attr,omitempty"`
	Visible    *bool        `xml:"visible,attr,omitempty"`
	Intersect  bool         `xml:"intersect,attr,omitempty"`
	Attributes []Attribute  `xml:"attribute"`
	Filters    []Filter     `xml:"filter"`
	Links      []LinkEntity `xml:"link-entity"`
}

// Render returns the query as FetchXML.
func (f Fetch) Render() (string, error) {
	if f.Version == "" {
		f.Version = "1.0"
	}
	if f.Mapping == "" {
		f.Mapping = "logical"
	}
	data, err := xml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("render fetchxml: %w", err)
	}
	return string(data), nil
}

func and(conds ...Condition) Filter {
	return Filter{Type: "and", Conditions: conds}
}

func eq(attr, value string) Condition {
	return Condition{Attribute: attr, Operator: "eq", Value: value}
}

func beginsWith(attr, value string) Condition {
	return Condition{Attribute: attr, Operator: "begins-with", Value: value}
}

// contains matches value anywhere in the column. LIKE wildcards in the user
// text are escaped so they match literally.
func contains(attr, value string) Condition {
	return Condition{Attribute: attr, Operator: "like", Value: "%" + escapeLike(value) + "%"}
}

var likeEscaper = strings.NewReplacer("[", "[[]", "%", "[%]", "_", "[_]")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func attrs(names ...string) []Attribute {
	out := make([]Attribute, len(names))
	for i, n := range names {
		out[i] = Attribute{Name: n}
	}
	return out
}

func hidden() *bool {
	v := false
	return &v
}
