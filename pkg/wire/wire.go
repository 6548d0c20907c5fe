// Package wire provides the canonical CBOR encoding every persisted and
// transmitted type in this module shares: private keys, public keys,
// masks, stacks, payloads and blocks. Grounded on the reference
// implementation's pbmx_serde crate, which wraps every domain type's
// (de)serialization behind one canonical encoding plus a base64 text
// form (derive_base64_conversions!), and on the teacher's own use of
// fxamacker/cbor for its config wire format (protocols/cmp/config).
package wire

import (
	"encoding/base64"

	"github.com/fxamacker/cbor/v2"
)

// RawMessage holds an encoded CBOR value for deferred decoding, the way a
// payload envelope defers decoding its arm until its Tag is known.
type RawMessage = cbor.RawMessage

var encMode = func() cbor.EncMode {
	mode, err := cbor.CTAP2EncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// Marshal encodes v using the module's canonical CBOR profile (CTAP2
// canonical form: sorted map keys, definite-length encoding), so that two
// parties encoding the same value always produce identical bytes (required
// for content-addressed stack and block Ids).
func Marshal(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes data into v using the module's CBOR profile.
func Unmarshal(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}

// ToBase64 is Marshal followed by standard base64 encoding, the module's
// human-portable text form for keys and session artifacts.
func ToBase64(v interface{}) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// FromBase64 is the inverse of ToBase64.
func FromBase64(s string, v interface{}) error {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	return Unmarshal(b, v)
}
