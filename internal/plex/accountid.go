package plex

import (
	"encoding/json"
	"fmt"
)

// AccountID is a media server account identifier. The API is inconsistent
// about whether ids arrive as JSON numbers or strings, so the value is
// normalized to its string form on decode and all comparisons use that form.
type AccountID string

// String returns the comparable string form of the identifier
func (id AccountID) String() string {
	return string(id)
}

// UnmarshalJSON accepts either a JSON number or a JSON string
func (id *AccountID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = AccountID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = AccountID(n.String())
		return nil
	}

	return fmt.Errorf("account id must be a string or number, got %s", string(data))
}

// MarshalJSON emits the identifier in its string form
func (id AccountID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}
