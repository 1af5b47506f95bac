// ABOUTME: Readium LCP support: passphrase-derived key, nested AES-CBC layers
// ABOUTME: Wrong passphrase surfaces as a retryable condition, never a crash

package ingest

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"encoding/xml"
	"fmt"
)

// licensePath is the well-known LCP license location inside the archive.
const licensePath = "META-INF/license.lcpl"

// rightsPath without a license indicates Adobe ADEPT rights management.
const rightsPath = "META-INF/rights.xml"

// encryptionPath describes which archive entries are individually encrypted.
const encryptionPath = "META-INF/encryption.xml"

// PassphrasePrompter asks the user for the LCP passphrase. Prompting is
// synchronous from the pipeline's perspective; ok=false means the user
// cancelled and ingestion aborts silently.
type PassphrasePrompter interface {
	Prompt(ctx context.Context, hint string) (passphrase string, ok bool)
}

// lcpLicense models the subset of license.lcpl the pipeline needs.
type lcpLicense struct {
	Encryption struct {
		ContentKey struct {
			EncryptedValue string `json:"encrypted_value"`
		} `json:"content_key"`
		UserKey struct {
			TextHint string `json:"text_hint"`
		} `json:"user_key"`
	} `json:"encryption"`
}

// deriveContentKey unlocks the LCP content key: the passphrase is hashed
// with SHA-256 into a 256-bit AES key, and the encrypted key blob
// ([16-byte IV][ciphertext]) is decrypted with AES-CBC. A padding failure
// means the passphrase was wrong.
func deriveContentKey(license lcpLicense, passphrase string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(license.Encryption.ContentKey.EncryptedValue)
	if err != nil {
		return nil, fmt.Errorf("ingest: decode LCP content key: %w", err)
	}
	userKey := sha256.Sum256([]byte(passphrase))
	contentKey, err := decryptCBC(userKey[:], blob)
	if err != nil {
		return nil, ErrLCPWrongPassphrase
	}
	if len(contentKey) != 16 && len(contentKey) != 32 {
		return nil, ErrLCPWrongPassphrase
	}
	return contentKey, nil
}

// decryptCBC strips the leading IV and AES-CBC decrypts the remainder,
// removing PKCS#7 padding.
func decryptCBC(key, blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(blob) < aes.BlockSize || (len(blob)-aes.BlockSize)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ingest: encrypted blob has invalid length %d", len(blob))
	}
	iv := blob[:aes.BlockSize]
	ciphertext := blob[aes.BlockSize:]

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("ingest: invalid padded length %d", len(data))
	}
	pad := int(data[len(data)-1])
	if pad < 1 || pad > blockSize {
		return nil, fmt.Errorf("ingest: invalid padding byte %d", pad)
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("ingest: corrupt padding")
		}
	}
	return data[:len(data)-pad], nil
}

// xmlEncryptionManifest models META-INF/encryption.xml: the set of archive
// entries that are individually encrypted.
type xmlEncryptionManifest struct {
	EncryptedData []struct {
		CipherData struct {
			CipherReference struct {
				URI string `xml:"URI,attr"`
			} `xml:"CipherReference"`
		} `xml:"CipherData"`
	} `xml:"EncryptedData"`
}

// parseEncryptedSet returns the set of entry paths listed as encrypted.
// A manifest that fails to parse yields an empty set; entry reads then
// return ciphertext and chapter extraction fails downstream, which is
// preferable to failing a DRM-free book with a stray manifest.
func parseEncryptedSet(data []byte) map[string]bool {
	var manifest xmlEncryptionManifest
	if err := xml.Unmarshal(data, &manifest); err != nil {
		return map[string]bool{}
	}
	set := make(map[string]bool, len(manifest.EncryptedData))
	for _, ed := range manifest.EncryptedData {
		if uri := ed.CipherData.CipherReference.URI; uri != "" {
			set[uri] = true
		}
	}
	return set
}

// parseLicense decodes license.lcpl and validates that a content key exists.
func parseLicense(data []byte) (lcpLicense, error) {
	var license lcpLicense
	if err := json.Unmarshal(data, &license); err != nil {
		return license, fmt.Errorf("ingest: parse LCP license: %w", err)
	}
	if license.Encryption.ContentKey.EncryptedValue == "" {
		return license, ErrDRMLCPUnsupported
	}
	return license, nil
}
