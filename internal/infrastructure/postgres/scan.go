package postgres

import "encoding/json"

// scanner is satisfied by *sql.Rows and *row
type scanner interface {
	Scan(dest ...any) error
}

// jsonParam passes raw JSON as text; lib/pq would send []byte as bytea.
func jsonParam(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}
