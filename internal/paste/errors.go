package paste

import "errors"

// Decode errors.
var (
	// ErrInvalidReference is returned when a reference lacks a paste id or key.
	ErrInvalidReference = errors.New("invalid paste reference")

	// ErrPasteStatus is returned when the paste server reports an error,
	// for example an expired or deleted paste.
	ErrPasteStatus = errors.New("paste server returned an error")

	// ErrMalformed is returned when the paste document cannot be understood.
	ErrMalformed = errors.New("malformed paste")

	// ErrUnsupportedCipher is returned for cipher parameters other than
	// AES-GCM with a 128 bit tag.
	ErrUnsupportedCipher = errors.New("unsupported paste cipher")

	// ErrDecrypt is returned when authentication of the ciphertext fails,
	// usually because the key in the reference is wrong.
	ErrDecrypt = errors.New("failed to decrypt paste")

	// ErrAttachmentMissing is returned when the decrypted paste carries no
	// attachment or no attachment name.
	ErrAttachmentMissing = errors.New("attachment is missing")

	// ErrUnsupportedAttachment is returned when the attachment is not a
	// base64 data URI.
	ErrUnsupportedAttachment = errors.New("unsupported attachment encoding")
)
