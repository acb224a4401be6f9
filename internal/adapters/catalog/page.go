// Package catalog reads the remote paginated character collection.
package catalog

import (
	"fmt"

	"github.com/okian/charcache/internal/domain/model"
)

// Info mirrors the pagination block the remote sends with every page. It is
// informational only; termination never depends on it.
type Info struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// PageResult is the outcome of one successful page request.
// HasMore is false when the page carried no records.
type PageResult struct {
	Page    int
	Records []model.Character
	HasMore bool
	Info    Info
}

type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type remoteCharacter struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   namedRef `json:"origin"`
	Location namedRef `json:"location"`
	Image    string   `json:"image"`
}

type pageBody struct {
	Info    Info              `json:"info"`
	Results []remoteCharacter `json:"results"`
}

// Denormalize flattens a remote character into a stored record.
func (r remoteCharacter) Denormalize() model.Character {
	return model.Character{
		ID:       r.ID,
		Name:     r.Name,
		Status:   r.Status,
		Species:  r.Species,
		Subtype:  r.Type,
		Gender:   r.Gender,
		Origin:   r.Origin.Name,
		Location: r.Location.Name,
		ImageURL: r.Image,
	}
}

// toResult validates and denormalizes a decoded body. A record without a
// positive id fails the whole page so nothing from it is committed.
func (b pageBody) toResult(page int) (PageResult, error) {
	out := make([]model.Character, 0, len(b.Results))
	for i, rc := range b.Results {
		if rc.ID <= 0 {
			return PageResult{}, fmt.Errorf("result %d: missing or invalid id %d", i, rc.ID)
		}
		out = append(out, rc.Denormalize())
	}
	return PageResult{
		Page:    page,
		Records: out,
		HasMore: len(out) > 0,
		Info:    b.Info,
	}, nil
}
