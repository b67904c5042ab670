package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yourname/wardwatch/internal"
)

var errEmptyDocument = errors.New("storage: empty document")

func encodeSet(patients internal.PatientSet) ([]byte, error) {
	if patients == nil {
		patients = internal.PatientSet{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(patients); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeSet parses a whole-set document keyed by patient id. Records whose
// id is missing take the key; a key/id mismatch is a parse failure.
func decodeSet(data []byte) (internal.PatientSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyDocument
	}
	var patients internal.PatientSet
	if err := json.Unmarshal(data, &patients); err != nil {
		return nil, err
	}
	if patients == nil {
		patients = internal.PatientSet{}
	}
	for id, p := range patients {
		if p == nil {
			delete(patients, id)
			continue
		}
		if p.ID == "" {
			p.ID = id
		}
		if p.ID != id {
			return nil, fmt.Errorf("storage: record key %q holds id %q", id, p.ID)
		}
	}
	return patients, nil
}

func decodeRecord(data []byte) (*internal.PatientRecord, error) {
	var p internal.PatientRecord
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, errors.New("storage: record without id")
	}
	return &p, nil
}
