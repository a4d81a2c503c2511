package types

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// ID is a HubSpot identifier. The API returns form ids as strings and portal ids as
// numbers; both decode into the same textual form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("id must be a string or a number, got %s", data)
		}
		*id = ID(data)
	}
	return nil
}

func (id ID) String() string { return string(id) }

// FormID identifies a HubSpot marketing form.
type FormID = ID

// PortalID identifies a HubSpot account.
type PortalID = ID

// Form is a single entry of the forms listing.
type Form struct {
	Name string `json:"name"`
	ID   FormID `json:"id"`
}

// Forms is the forms listing, ordered by name with unique names.
type Forms []Form

// NewForms builds an ordered listing from a name -> id mapping.
func NewForms(m map[string]FormID) Forms {
	out := make(Forms, 0, len(m))
	for name, id := range m {
		out = append(out, Form{Name: name, ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Map returns the listing as a name -> id mapping.
func (f Forms) Map() map[string]FormID {
	m := make(map[string]FormID, len(f))
	for _, form := range f {
		m[form.Name] = form.ID
	}
	return m
}

// Names returns the form names in order.
func (f Forms) Names() []string {
	names := make([]string, len(f))
	for i, form := range f {
		names[i] = form.Name
	}
	return names
}

// Get looks a form id up by name.
func (f Forms) Get(name string) (FormID, bool) {
	i := sort.Search(len(f), func(i int) bool { return f[i].Name >= name })
	if i < len(f) && f[i].Name == name {
		return f[i].ID, true
	}
	return "", false
}

// Response is the raw result of an outbound request.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 200 status.
func (r Response) OK() bool {
	return r.StatusCode == 200
}
