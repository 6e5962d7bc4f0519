package models

import (
	"encoding/json"
	"fmt"
)

// UserProfile is the backend's description of the signed-in user.
//
// Only Email and FullName are interpreted by the client. Every other field the
// backend sends (id, is_verified, auth_provider, ...) is kept verbatim in Extra
// so a profile survives a save/load cycle unchanged.
type UserProfile struct {
	Email    string
	FullName string
	Extra    map[string]json.RawMessage
}

func (u UserProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+2)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["email"] = u.Email
	out["full_name"] = u.FullName
	return json.Marshal(out)
}

func (u *UserProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("user profile: expected JSON object")
	}

	var p UserProfile
	if v, ok := raw["email"]; ok {
		if err := json.Unmarshal(v, &p.Email); err != nil {
			return fmt.Errorf("user profile email: %w", err)
		}
		delete(raw, "email")
	}
	if v, ok := raw["full_name"]; ok && string(v) != "null" {
		if err := json.Unmarshal(v, &p.FullName); err != nil {
			return fmt.Errorf("user profile full_name: %w", err)
		}
	}
	delete(raw, "full_name")

	if len(raw) > 0 {
		p.Extra = raw
	}
	*u = p
	return nil
}

// Clone returns a deep copy, so snapshots handed out by the session store
// cannot alias each other.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	if u.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for k, v := range u.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// Field decodes an opaque backend field into dst. It reports false when the
// field is absent or does not decode.
func (u *UserProfile) Field(name string, dst any) bool {
	if u == nil {
		return false
	}
	v, ok := u.Extra[name]
	if !ok {
		return false
	}
	return json.Unmarshal(v, dst) == nil
}

// DisplayName is the full name when known, otherwise the email.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
