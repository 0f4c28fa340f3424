package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshal encodes a server message in the session's encoding. msgpack reuses
// the json field names so both encodings carry the same documents.
func Marshal(encoding string, v any) ([]byte, error) {
	if encoding != EncodingMsgpack {
		return json.Marshal(v)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Unmarshal(encoding string, b []byte, v any) error {
	if encoding != EncodingMsgpack {
		return json.Unmarshal(b, v)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// Binary reports whether messages in encoding go out as binary frames.
func Binary(encoding string) bool { return encoding == EncodingMsgpack }
