package store

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/golang/snappy"
)

var canonicalJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// encode serializes v with jsoniter and compresses the result with
// snappy. jsoniter stands in for the protobuf encoding the teacher uses
// elsewhere: this repo has no code-generated message types, and
// jsoniter is the corpus's own drop-in replacement for encoding/json.
func encode(v interface{}) ([]byte, error) {
	enc, err := canonicalJSON.Marshal(v)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, enc), nil
}

func decode(data []byte, dst interface{}) error {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return err
	}
	return canonicalJSON.Unmarshal(raw, dst)
}
