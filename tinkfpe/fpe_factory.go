package tinkfpe

import (
	"fmt"

	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"
	tinkpb "github.com/google/tink/go/proto/tink_go_proto"

	unifpe "github.com/vdparikh/unifpe"
)

// New builds a fpe.Cipher from a Tink keyset handle's primary key plus a
// caller-supplied tweak and alphabet options, following Tink's usual
// "provision via keyset, consume via factory" pattern:
//
//	handle, err := keyset.NewHandle(tinkfpe.KeyTemplate())
//	if err != nil {
//	    return err
//	}
//	cipher, err := tinkfpe.New(handle, []byte("tweak"))
//	if err != nil {
//	    return err
//	}
//	ciphertext, err := cipher.Encrypt([]byte("123-45-6789"))
func New(handle *keyset.Handle, tweak []byte, opts ...unifpe.Option) (*unifpe.Cipher, error) {
	if handle == nil {
		return nil, fmt.Errorf("tinkfpe: keyset handle cannot be nil")
	}

	keyBytes, err := primaryKeyBytes(handle)
	if err != nil {
		return nil, err
	}

	cipher, err := unifpe.New(keyBytes, tweak, opts...)
	if err != nil {
		return nil, fmt.Errorf("tinkfpe: building cipher: %w", err)
	}
	return cipher, nil
}

// primaryKeyBytes extracts the raw symmetric key material backing handle's
// primary key. It relies on insecurecleartextkeyset, so it only works for
// unencrypted keysets built in-process or via NewKeysetHandleFromKey — a
// keyset loaded from encrypted storage must be decrypted into such a
// handle first.
func primaryKeyBytes(handle *keyset.Handle) ([]byte, error) {
	primitives, err := handle.Primitives()
	if err != nil {
		return nil, fmt.Errorf("tinkfpe: reading keyset primitives: %w", err)
	}
	if primitives.Primary == nil {
		return nil, fmt.Errorf("tinkfpe: keyset has no primary key")
	}
	keyID := primitives.Primary.KeyID

	ks := insecurecleartextkeyset.KeysetMaterial(handle)
	for _, k := range ks.Key {
		if k.KeyId != keyID || k.KeyData == nil {
			continue
		}
		if k.KeyData.KeyMaterialType != tinkpb.KeyData_SYMMETRIC {
			return nil, fmt.Errorf("tinkfpe: key %d is not symmetric key material", keyID)
		}
		return k.KeyData.Value, nil
	}

	return nil, fmt.Errorf("tinkfpe: primary key %d not found in keyset", keyID)
}
