package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Account is one rentable Steam account from the catalog.
// Only Login is interpreted; every other field is kept in Extra as-is.
type Account struct {
	Login string
	Extra map[string]interface{}
}

// DisplayLogin returns the login or "N/A" when the record has none.
func (a Account) DisplayLogin() string {
	if a.Login == "" {
		return "N/A"
	}
	return a.Login
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.fromMap(raw)
	return nil
}

func (a *Account) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	a.fromMap(raw)
	return nil
}

func (a *Account) fromMap(raw map[string]interface{}) {
	a.Login = ""
	switch v := raw["login"].(type) {
	case nil:
	case string:
		a.Login = v
	default:
		a.Login = fmt.Sprint(v)
	}
	delete(raw, "login")
	if len(raw) == 0 {
		raw = nil
	}
	a.Extra = raw
}

// Rental marks an account as currently rented out.
type Rental struct {
	StartedAt time.Time `json:"started_at"`
}
