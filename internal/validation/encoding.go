package validation

import (
	"encoding/base64"
	"encoding/hex"

	validation "github.com/jellydator/validation"
)

// Base64 validates standard (padded) base64 text. Empty strings pass; pair with Required.
var Base64 = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := base64.StdEncoding.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_base64", "must be valid base64-encoded data"),
)

// keyBytes is the AES-256 key size an encoded encryption key must decode to.
const keyBytes = 32

// KeyEncoding accepts the two textual forms of an encryption key: 64 hex characters or standard
// base64. Either form must decode to exactly 32 bytes, so a 64-character string that is not hex
// is judged as base64 and rejected by its decoded length.
var KeyEncoding = validation.NewStringRuleWithError(
	func(s string) bool {
		if len(s) == keyBytes*2 {
			if _, err := hex.DecodeString(s); err == nil {
				return true
			}
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		return err == nil && len(decoded) == keyBytes
	},
	validation.NewError("validation_key_encoding", "must be 64 hex characters or base64 encoding 32 bytes"),
)
