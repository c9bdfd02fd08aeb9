package archival

import (
	"encoding/json"
	"strings"

	"rollcall-hq/rollcall/pkg/attendance"
)

// ToNDJSON converts a batch of records into newline-delimited JSON: one JSON
// object per record, single newline separators, no trailing newline and no
// enclosing array. An empty batch produces an empty string.
//
// Every field of every record is preserved, including the open Fields bag.
// A record that cannot be serialized fails the whole batch; silently dropping
// it would let its data be purged without ever reaching the archive.
func ToNDJSON(records []*attendance.Record) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	var b strings.Builder
	for i, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return "", &SerializeError{RecordID: record.ID, Cause: err}
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.Write(line)
	}
	return b.String(), nil
}
