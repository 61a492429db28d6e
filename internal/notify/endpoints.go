package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

// LoadTable decodes an endpoint table from JSON: config filename to person
// to endpoint URL.
func LoadTable(r io.Reader) (types.EndpointTable, error) {
	var table types.EndpointTable
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigEndpoints,
			"failed to parse endpoints file", err)
	}
	return table, nil
}

// LoadTableFile reads and decodes the endpoint table at path.
func LoadTableFile(path string) (types.EndpointTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeConfigEndpoints,
				fmt.Sprintf("endpoints file not found: %s", path), err,
				map[string]any{"path": path})
		}
		return nil, types.NewAppErrorWithDetails(types.ErrCodeConfigEndpoints,
			fmt.Sprintf("failed to read endpoints file: %s", path), err,
			map[string]any{"path": path})
	}
	defer f.Close()

	table, err := LoadTable(f)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithDetails(map[string]any{"path": path})
		}
		return nil, err
	}
	return table, nil
}

// Mint returns a fresh unguessable endpoint URL under the given host.
func Mint(host string) string {
	return strings.TrimRight(host, "/") + "/" + uuid.NewString()
}

// BuildTable produces the endpoint table for the given rosters, keyed by
// config filename. URLs already present in existing are preserved so
// subscribers keep their topics; new people get freshly minted endpoints;
// departed people and retired config files are dropped.
func BuildTable(existing types.EndpointTable, rosters map[string][]string, host string) types.EndpointTable {
	table := make(types.EndpointTable, len(rosters))
	for source, people := range rosters {
		entries := make(map[string]string, len(people))
		for _, person := range people {
			if url, ok := existing[source][person]; ok {
				entries[person] = url
				continue
			}
			entries[person] = Mint(host)
		}
		table[source] = entries
	}
	return table
}

// SaveTable writes the table as JSON. A positive indent pretty-prints with
// that many spaces; zero writes compact output. Either way a trailing
// newline is appended so the file is shell-friendly.
func SaveTable(w io.Writer, table types.EndpointTable, indent int) error {
	var (
		data []byte
		err  error
	)
	if indent > 0 {
		data, err = json.MarshalIndent(table, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(table)
	}
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to encode endpoints table", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to write endpoints table", err)
	}
	return nil
}
