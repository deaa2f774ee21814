package types

import "strings"

// ClientRecord is the canonical client entity served to the admin UI.
// ID is opaque: the file-backed store issues time-derived tokens while the
// remote registry issues its own identifiers, and the two are not
// interchangeable across backends. Email is optional; an empty string means
// "not provided" and is omitted from JSON output.
// Records are immutable once handed to the UI layer: there is no update or
// delete operation anywhere in the panel.
type ClientRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// CreateClientInput is the POST /api/clients request body.
type CreateClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// RawClient is a backend payload before normalization. Backends emit
// differently shaped records (flat JSON objects from the file store, nested
// SOAP envelopes from the registry); they all funnel through NormalizeClient
// so nothing above the backends ever branches on backend shape.
type RawClient struct {
	ID    string
	Name  string
	Email string
}

// NormalizeClient produces the canonical record from a raw backend payload.
// Name is required and must be non-blank; ID and Email are taken verbatim.
func NormalizeClient(raw RawClient) (ClientRecord, error) {
	if strings.TrimSpace(raw.Name) == "" {
		return ClientRecord{}, Err(ErrValidation, nil, "client name is required")
	}
	return ClientRecord{ID: raw.ID, Name: raw.Name, Email: raw.Email}, nil
}

// NormalizeClients normalizes a list result, dropping malformed entries so
// listing stays a total function. The result is never nil.
func NormalizeClients(raws []RawClient) []ClientRecord {
	records := make([]ClientRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := NormalizeClient(raw)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}
