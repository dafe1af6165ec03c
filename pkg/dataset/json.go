package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"gitlab.com/tinyland/lab/fingrid/pkg/grid"
)

// IDField is the JSON key holding a row's identity.
const IDField = "id"

var (
	ErrMissingID   = errors.New("missing id")
	ErrDuplicateID = errors.New("duplicate id")
)

// LoadJSON reads a JSON array of flat objects. Each object must carry a
// unique "id"; every other key becomes a row value. Numbers are kept as
// json.Number so currency amounts stay exact.
func LoadJSON(r io.Reader) ([]grid.Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("dataset: decode: %w", err)
	}

	rows := make([]grid.Row, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, obj := range raw {
		id := grid.Stringify(obj[IDField])
		if id == "" {
			return nil, fmt.Errorf("dataset: row %d: %w", i, ErrMissingID)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("dataset: row %d: %w %q", i, ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		delete(obj, IDField)
		rows = append(rows, grid.Row{ID: id, Values: obj})
	}
	return rows, nil
}

// LoadFile reads a JSON dataset from path.
func LoadFile(path string) ([]grid.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}

// WriteJSON writes rows as an indented JSON array of flat objects holding
// the id and the given columns. A nil columns writes every value.
func WriteJSON(w io.Writer, rows []grid.Row, columns []grid.ColumnConfig) error {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		obj := make(map[string]any, len(r.Values)+1)
		if columns == nil {
			for k, v := range r.Values {
				obj[k] = v
			}
		} else {
			for _, c := range columns {
				if v, ok := r.Values[c.ID]; ok {
					obj[c.ID] = v
				}
			}
		}
		obj[IDField] = r.ID
		out[i] = obj
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("dataset: encode: %w", err)
	}
	return nil
}
