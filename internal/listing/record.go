package listing

import (
	"encoding/json"
	"fmt"
)

// Entity is implemented by every record type a Listing can hold. WithEntityID
// returns a copy carrying the given id.
type Entity[T any] interface {
	EntityID() int
	WithEntityID(id int) T
}

// Record tags an item with the partition that owns it. Local records live in
// storage; remote records belong to the upstream API and only exist in the
// currently loaded page.
type Record[T any] struct {
	Item  T
	Local bool
}

// MarshalJSON flattens the item and adds an "isLocal" field, which is also
// the persisted form of local records.
func (r Record[T]) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(r.Item)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("record item must encode as a JSON object: %w", err)
	}
	fields["isLocal"] = json.RawMessage(fmt.Sprintf("%t", r.Local))
	return json.Marshal(fields)
}

func (r *Record[T]) UnmarshalJSON(data []byte) error {
	var tag struct {
		IsLocal bool `json:"isLocal"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	r.Item = item
	r.Local = tag.IsLocal
	return nil
}
