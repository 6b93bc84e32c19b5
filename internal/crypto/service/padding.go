package service

import (
	"bytes"
	"crypto/subtle"
	"errors"
)

var errInvalidPadding = errors.New("invalid padding")

// pkcs7Pad appends between 1 and blockSize bytes, each holding the pad length. Input that is
// already block aligned gets a full extra block.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data), len(data)+padLen)
	copy(padded, data)
	return append(padded, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// pkcs7Unpad validates and strips PKCS#7 padding.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errInvalidPadding
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, errInvalidPadding
	}

	pad := data[len(data)-padLen:]
	expected := bytes.Repeat([]byte{byte(padLen)}, padLen)
	if subtle.ConstantTimeCompare(pad, expected) != 1 {
		return nil, errInvalidPadding
	}

	return data[:len(data)-padLen], nil
}
