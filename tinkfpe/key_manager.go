// Package tinkfpe integrates this module's multi-alphabet cipher with
// Tink's keyset machinery: a registry.KeyManager for generating and storing
// FPE key material in a Tink keyset, and a factory (see fpe_factory.go)
// that turns a keyset handle into a fpe.Cipher.
package tinkfpe

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/google/tink/go/core/registry"
	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"
	tinkpb "github.com/google/tink/go/proto/tink_go_proto"
	"google.golang.org/protobuf/proto"
)

// FPEKeyTypeURL is the type URL for FPE key material in Tink's registry.
const FPEKeyTypeURL = "type.googleapis.com/google.crypto.tink.FpeFf1Key"

// KeyManager implements registry.KeyManager, letting FPE key material be
// generated and carried inside an ordinary Tink keyset. Tink's KeyManager
// contract hands Primitive a bare key blob with no room for a tweak or
// alphabet selection, so the primitive it returns here is the raw key
// bytes; New in fpe_factory.go is what actually builds a usable cipher,
// combining those bytes with a caller-supplied tweak and alphabet options.
type KeyManager struct {
	typeURL string
}

// NewKeyManager builds the FPE key manager.
func NewKeyManager() *KeyManager {
	return &KeyManager{typeURL: FPEKeyTypeURL}
}

// Primitive validates serializedKey as raw FPE key material and returns it
// unchanged; fpe_factory.go's New is responsible for turning it into a
// fpe.Cipher once a tweak and alphabet selection are also available.
func (km *KeyManager) Primitive(serializedKey []byte) (interface{}, error) {
	if err := validateKeySize(len(serializedKey)); err != nil {
		return nil, err
	}
	return serializedKey, nil
}

// DoesSupport reports whether typeURL is the FPE key type.
func (km *KeyManager) DoesSupport(typeURL string) bool {
	return typeURL == km.typeURL
}

// TypeURL returns the type URL of keys this manager handles.
func (km *KeyManager) TypeURL() string {
	return km.typeURL
}

// NewKey is unsupported: Tink's KeyManager interface requires it, but this
// manager only ever constructs keys via NewKeyData (used by keyset.NewHandle),
// which can report the key size it generated without a protobuf round-trip.
func (km *KeyManager) NewKey(serializedKeyTemplate []byte) (proto.Message, error) {
	return nil, fmt.Errorf("tinkfpe: NewKey not supported, use NewKeyData via keyset.NewHandle")
}

// NewKeyData generates fresh random FPE key material sized per
// serializedKeyTemplate (a single byte: 16, 24, or 32), defaulting to 32
// (AES-256) when no template value is given.
func (km *KeyManager) NewKeyData(serializedKeyTemplate []byte) (*tinkpb.KeyData, error) {
	keySize := 32
	if len(serializedKeyTemplate) > 0 {
		keySize = int(serializedKeyTemplate[0])
	}
	if err := validateKeySize(keySize); err != nil {
		return nil, err
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("tinkfpe: generating key: %w", err)
	}

	return &tinkpb.KeyData{
		TypeUrl:         km.typeURL,
		Value:           key,
		KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
	}, nil
}

var _ registry.KeyManager = (*KeyManager)(nil)

var registerOnce sync.Once

// registerKeyManager registers a KeyManager with Tink's global registry the
// first time it's called and is a no-op afterward. registry.RegisterKeyManager
// errors on a second registration for the same type URL, which repeated test
// runs in the same process would otherwise hit.
func registerKeyManager() *KeyManager {
	km := NewKeyManager()
	registerOnce.Do(func() {
		_ = registry.RegisterKeyManager(km)
	})
	return km
}

func validateKeySize(n int) error {
	if n != 16 && n != 24 && n != 32 {
		return fmt.Errorf("tinkfpe: invalid key size %d bytes (must be 16, 24, or 32)", n)
	}
	return nil
}

// KeyTemplate returns the default FPE key template (AES-256, 32 bytes).
func KeyTemplate() *tinkpb.KeyTemplate {
	return KeyTemplateAES256()
}

// KeyTemplateAES128 returns a 16-byte (AES-128) FPE key template.
func KeyTemplateAES128() *tinkpb.KeyTemplate {
	return sizedKeyTemplate(16)
}

// KeyTemplateAES192 returns a 24-byte (AES-192) FPE key template.
func KeyTemplateAES192() *tinkpb.KeyTemplate {
	return sizedKeyTemplate(24)
}

// KeyTemplateAES256 returns a 32-byte (AES-256) FPE key template.
func KeyTemplateAES256() *tinkpb.KeyTemplate {
	return sizedKeyTemplate(32)
}

func sizedKeyTemplate(size byte) *tinkpb.KeyTemplate {
	return &tinkpb.KeyTemplate{
		TypeUrl:          FPEKeyTypeURL,
		Value:            []byte{size},
		OutputPrefixType: tinkpb.OutputPrefixType_RAW,
	}
}

// NewKeysetHandleFromKey wraps a raw key (e.g. one pulled from an HSM) in a
// single-key, unencrypted Tink keyset handle. Production use should encrypt
// the keyset at rest with keyset.Write and an AEAD; this constructor only
// builds the in-memory handle.
func NewKeysetHandleFromKey(key []byte) (*keyset.Handle, error) {
	if err := validateKeySize(len(key)); err != nil {
		return nil, err
	}

	keyID, err := randomKeyID()
	if err != nil {
		return nil, err
	}

	ks := &tinkpb.Keyset{
		PrimaryKeyId: keyID,
		Key: []*tinkpb.Keyset_Key{{
			KeyData: &tinkpb.KeyData{
				TypeUrl:         FPEKeyTypeURL,
				Value:           key,
				KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
			},
			KeyId:            keyID,
			Status:           tinkpb.KeyStatusType_ENABLED,
			OutputPrefixType: tinkpb.OutputPrefixType_RAW,
		}},
	}

	return insecurecleartextkeyset.Read(&keyset.MemReaderWriter{Keyset: ks})
}

func randomKeyID() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("tinkfpe: generating key id: %w", err)
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
