// File: models/patient.go
package models

import (
	"encoding/json"
	"strings"
)

type Patient struct {
	ID        int    `bson:"id" json:"id"`
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	DOB       string `bson:"dob,omitempty" json:"dob,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Gender    string `bson:"gender,omitempty" json:"gender,omitempty"`

	raw json.RawMessage
}

func (p *Patient) UnmarshalJSON(data []byte) error {
	type plain Patient
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Patient(v)
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (p *Patient) SetRaw(raw json.RawMessage) {
	p.raw = raw
}

func (p Patient) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	type plain Patient
	return json.Marshal(plain(p))
}

// FullName joins first and last name.
func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Insurance records are served as stored; their shape is owned by the billing side.
type Insurance map[string]interface{}
