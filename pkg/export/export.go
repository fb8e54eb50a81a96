package export

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/vango-dev/reflow/internal/errors"
	"github.com/vango-dev/reflow/pkg/host/memhost"
)

// Store is the interface for snapshot storage backends.
type Store interface {
	// Put stores data under key and returns where it was written.
	Put(ctx context.Context, key, contentType string, data []byte) (location string, err error)
}

// Snapshot is one exported view of a mounted tree.
type Snapshot struct {
	// Name is the key stem; the HTML and JSON documents are written as
	// Name+".html" and Name+".json".
	Name string `json:"name"`

	// HTML is the serialised host tree.
	HTML string `json:"-"`

	// State is the plain value of the observed data.
	State any `json:"state,omitempty"`

	// Ops are the host operations recorded for this snapshot.
	Ops []memhost.Op `json:"ops,omitempty"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"createdAt"`
}

// Write stores snap's HTML and JSON documents and returns their locations.
func Write(ctx context.Context, s Store, snap Snapshot) ([]string, error) {
	if snap.Name == "" {
		return nil, errors.New("R020").WithDetail("Snapshot name is empty.")
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	meta, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errors.New("R020").Wrap(err)
	}

	docs := []struct {
		key, contentType string
		data             []byte
	}{
		{snap.Name + ".html", "text/html; charset=utf-8", []byte(snap.HTML)},
		{snap.Name + ".json", "application/json", append(meta, '\n')},
	}

	var locations []string
	for _, d := range docs {
		loc, err := s.Put(ctx, d.key, d.contentType, d.data)
		if err != nil {
			return locations, errors.New("R020").
				WithDetailf("Writing %s failed.", path.Base(d.key)).
				Wrap(err)
		}
		locations = append(locations, loc)
	}
	return locations, nil
}
