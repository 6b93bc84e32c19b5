package domain

const (
	// KeySize is the length in bytes of the vault secret key (AES-256).
	KeySize = 32

	// IVSize is the length in bytes of the CBC initialization vector (one AES block).
	IVSize = 16

	// IVHexLength is the number of hex characters the IV occupies at the front of an
	// envelope. It is the only delimiter between the IV and the ciphertext.
	IVHexLength = IVSize * 2
)

// KeySource names where the secret key is read from at startup.
type KeySource string

const (
	// KeySourceEnv reads the key directly from the ENCRYPTION_KEY variable.
	KeySourceEnv KeySource = "env"

	// KeySourceKeyring reads the key from the operating system keyring.
	KeySourceKeyring KeySource = "keyring"

	// KeySourceKMS treats ENCRYPTION_KEY as a KMS-wrapped key and unwraps it at startup.
	KeySourceKMS KeySource = "kms"
)
