// Package encoder provides the wire codec used by the RPC streams and
// gossip messages the network service exchanges with peers.
package encoder

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/snappy"
	jsoniter "github.com/json-iterator/go"
)

// MaxChunkSize bounds a single encoded message, mirroring the teacher's
// ssz encoder's chunk limit.
const MaxChunkSize = uint64(1 << 20)

var canonicalJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// NetworkEncoding is the wire codec used for RPC request/response bodies
// and gossip payloads.
type NetworkEncoding interface {
	Encode(w io.Writer, msg interface{}) (int, error)
	EncodeWithLength(w io.Writer, msg interface{}) (int, error)
	Decode(b []byte, to interface{}) error
	DecodeWithLength(r io.Reader, to interface{}) error
	ProtocolSuffix() string
}

// JSONSnappyEncoder encodes messages as canonical JSON, optionally
// snappy-compressed. It plays the role the teacher's SszNetworkEncoder
// plays for SimpleSerialize, swapped for jsoniter since no SSZ schema
// exists for this domain's entry/validation-package types.
type JSONSnappyEncoder struct {
	UseSnappyCompression bool
}

func (e JSONSnappyEncoder) doEncode(msg interface{}) ([]byte, error) {
	b, err := canonicalJSON.Marshal(msg)
	if err != nil {
		return nil, err
	}
	if e.UseSnappyCompression {
		b = snappy.Encode(nil, b)
	}
	return b, nil
}

// Encode writes msg to w with no length prefix.
func (e JSONSnappyEncoder) Encode(w io.Writer, msg interface{}) (int, error) {
	if msg == nil {
		return 0, nil
	}
	b, err := e.doEncode(msg)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

// EncodeWithLength writes msg to w prefixed with a big-endian uint64
// length, so a reader can frame the stream without a delimiter.
func (e JSONSnappyEncoder) EncodeWithLength(w io.Writer, msg interface{}) (int, error) {
	if msg == nil {
		return 0, nil
	}
	b, err := e.doEncode(msg)
	if err != nil {
		return 0, err
	}
	if uint64(len(b)) > MaxChunkSize {
		return 0, fmt.Errorf("encoder: message size %d exceeds max chunk size %d", len(b), MaxChunkSize)
	}
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(b)))
	n1, err := w.Write(prefix[:])
	if err != nil {
		return n1, err
	}
	n2, err := w.Write(b)
	return n1 + n2, err
}

// Decode unmarshals an unframed buffer previously produced by Encode.
func (e JSONSnappyEncoder) Decode(b []byte, to interface{}) error {
	if e.UseSnappyCompression {
		decoded, err := snappy.Decode(nil, b)
		if err != nil {
			return err
		}
		b = decoded
	}
	return canonicalJSON.Unmarshal(b, to)
}

// DecodeWithLength reads a length-prefixed message written by
// EncodeWithLength and unmarshals it into to.
func (e JSONSnappyEncoder) DecodeWithLength(r io.Reader, to interface{}) error {
	var prefix [8]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return err
	}
	msgLen := binary.BigEndian.Uint64(prefix[:])
	if msgLen > MaxChunkSize {
		return fmt.Errorf("encoder: decoded message size %d exceeds max chunk size %d", msgLen, MaxChunkSize)
	}
	b := make([]byte, msgLen)
	if _, err := io.ReadFull(r, b); err != nil {
		return err
	}
	return e.Decode(b, to)
}

// ProtocolSuffix names the libp2p protocol ID suffix for this codec.
func (e JSONSnappyEncoder) ProtocolSuffix() string {
	if e.UseSnappyCompression {
		return "/json_snappy"
	}
	return "/json"
}
