package cart

import (
	"bytes"
	"encoding/json"
)

// Option is a variant attribute (size or color) that may be absent.
type Option struct {
	value string
	set   bool
}

// Some returns a present Option. An empty string is treated as absent.
func Some(v string) Option {
	if v == "" {
		return Option{}
	}
	return Option{value: v, set: true}
}

// None returns an absent Option.
func None() Option { return Option{} }

func (o Option) IsSet() bool { return o.set }

func (o Option) Get() (string, bool) { return o.value, o.set }

// Or returns the value, or fallback when absent.
func (o Option) Or(fallback string) string {
	if !o.set {
		return fallback
	}
	return o.value
}

func (o Option) String() string { return o.value }

// MarshalJSON encodes an absent Option as null.
func (o Option) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Option) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = Some(s)
	return nil
}
