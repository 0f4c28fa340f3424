package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Encode renders a save as a JSON header line followed by the JSON body, all
// zstd-compressed. The header line lets tools read metadata without decoding
// the whole world.
func Encode(s SaveV1) ([]byte, error) {
	var out bytes.Buffer
	enc, err := zstd.NewWriter(&out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	s.Header.Version = Version
	hb, _ := json.Marshal(s.Header)
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return nil, err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return nil, err
	}
	if err := json.NewEncoder(bw).Encode(&s); err != nil {
		enc.Close()
		return nil, fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Decode reverses Encode. Damaged elements are skipped and missing fields
// defaulted; warnings lists what was repaired. An error is returned only when
// the stream or its top-level object cannot be read at all.
func Decode(data []byte, d Defaults) (SaveV1, []string, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return SaveV1{}, nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	if _, err := br.ReadBytes('\n'); err != nil {
		return SaveV1{}, nil, fmt.Errorf("read header: %w", err)
	}
	var body bytes.Buffer
	if _, err := body.ReadFrom(br); err != nil {
		return SaveV1{}, nil, fmt.Errorf("read body: %w", err)
	}
	return Normalize(body.Bytes(), d)
}

// ReadHeader returns only the header line of an encoded save.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return h, err
	}
	defer dec.Close()
	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("header: %w", err)
	}
	return h, nil
}

func Write(path string, s SaveV1) error {
	b, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func Read(path string, d Defaults) (SaveV1, []string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SaveV1{}, nil, err
	}
	return Decode(b, d)
}
