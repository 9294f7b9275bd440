package gigo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ID is a service identifier. The API has sent ids both as JSON strings and
// as numbers; either decodes to its text.
type ID string

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// Band is a band the logged-in user can access
type Band struct {
	ID        ID     `json:"id"`
	ShortName string `json:"shortname"`
	Name      string `json:"name,omitempty"`
}

// BandNotFoundError is returned when neither an id nor a short name matches
type BandNotFoundError struct {
	Query string
	Bands []Band
}

func (e *BandNotFoundError) Error() string {
	return fmt.Sprintf("Band %s does not exist or you do not have access to it!", e.Query)
}

// IsNotFound reports whether err is a 404 from the service
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Bands lists the bands the user has access to
func (c *Client) Bands(ctx context.Context) ([]Band, error) {
	body, err := c.Fetch(ctx, "api/bands")
	if err != nil {
		return nil, err
	}

	var bands []Band
	if err := json.Unmarshal([]byte(body), &bands); err != nil {
		return nil, fmt.Errorf("parsing band list: %w", err)
	}
	return bands, nil
}

// Band fetches one band by id or short name
func (c *Client) Band(ctx context.Context, idOrShortName string) (*Band, error) {
	body, err := c.Fetch(ctx, "api/band/"+url.PathEscape(idOrShortName))
	if err != nil {
		return nil, err
	}

	var band Band
	if err := json.Unmarshal([]byte(body), &band); err != nil {
		return nil, fmt.Errorf("parsing band: %w", err)
	}
	return &band, nil
}

// ResolveBand looks a band up directly, and on a 404 falls back to a
// case-insensitive short name match over the accessible bands. Other errors
// from the direct lookup are returned unchanged.
func (c *Client) ResolveBand(ctx context.Context, idOrShortName string) (*Band, error) {
	band, err := c.Band(ctx, idOrShortName)
	if err == nil {
		return band, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	bands, err := c.Bands(ctx)
	if err != nil {
		return nil, err
	}

	if match := MatchShortName(bands, idOrShortName); match != nil {
		return match, nil
	}
	return nil, &BandNotFoundError{Query: idOrShortName, Bands: bands}
}

// MatchShortName returns the first band whose short name equals name, ignoring case
func MatchShortName(bands []Band, name string) *Band {
	for i := range bands {
		if strings.EqualFold(bands[i].ShortName, name) {
			return &bands[i]
		}
	}
	return nil
}
