package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ratings maps category names to their rating while remembering the order
// in which categories appeared on the wire. A repeated key keeps its first
// position and takes the last value.
type Ratings struct {
	names  []string
	byName map[string]CategoryRating
}

// RatingEntry is a single named category rating.
type RatingEntry struct {
	Name   string
	Rating CategoryRating
}

// NewRatings builds a Ratings from entries in the given order.
func NewRatings(entries ...RatingEntry) Ratings {
	var r Ratings
	for _, e := range entries {
		r.Set(e.Name, e.Rating)
	}
	return r
}

// Set inserts or replaces the rating for name.
func (r *Ratings) Set(name string, rating CategoryRating) {
	if r.byName == nil {
		r.byName = make(map[string]CategoryRating)
	}
	if _, exists := r.byName[name]; !exists {
		r.names = append(r.names, name)
	}
	rating.normalize()
	r.byName[name] = rating
}

// Get returns the rating for name.
func (r Ratings) Get(name string) (CategoryRating, bool) {
	rating, ok := r.byName[name]
	return rating, ok
}

// Len returns the number of categories.
func (r Ratings) Len() int {
	return len(r.names)
}

// Names returns category names in wire order.
func (r Ratings) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Entries returns all ratings in wire order.
func (r Ratings) Entries() []RatingEntry {
	out := make([]RatingEntry, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, RatingEntry{Name: name, Rating: r.byName[name]})
	}
	return out
}

// MarshalJSON writes the categories as an object in wire order.
func (r Ratings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.byName[name])
		if err != nil {
			return nil, fmt.Errorf("ratings[%q]: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object token by token so key order survives.
func (r *Ratings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("ratings: %w", err)
	}
	if tok == nil {
		*r = Ratings{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ratings: expected object, got %v", tok)
	}

	var out Ratings
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("ratings: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ratings: unexpected key %v", keyTok)
		}
		var rating CategoryRating
		if err := dec.Decode(&rating); err != nil {
			return fmt.Errorf("ratings[%q]: %w", name, err)
		}
		out.Set(name, rating)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("ratings: %w", err)
	}

	*r = out
	return nil
}
