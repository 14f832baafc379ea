package tinkfpe

import (
	cryptorand "crypto/rand"
	"testing"

	"github.com/google/tink/go/keyset"
	tinkpb "github.com/google/tink/go/proto/tink_go_proto"
)

// BenchmarkEncrypt benchmarks Encrypt for various input shapes.
func BenchmarkEncrypt(b *testing.B) {
	registerKeyManager()
	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("creating keyset handle: %v", err)
	}
	cipher, err := New(handle, []byte("benchmark-tweak"))
	if err != nil {
		b.Fatalf("creating cipher: %v", err)
	}

	benchmarks := []struct {
		name      string
		plaintext string
	}{
		{"Short_4digits", "1234"},
		{"Medium_10digits", "1234567890"},
		{"Long_16digits", "1234567890123456"},
		{"SSN_Format", "123-45-6789"},
		{"CreditCard_Format", "4532-1234-5678-9010"},
		{"Phone_Format", "555-123-4567"},
		{"Email_Format", "user@domain.com"},
		{"Alphanumeric_10", "ABC123XYZ9"},
		{"Alphanumeric_20", "ABC123XYZ9DEF456UVW8"},
	}

	for _, bm := range benchmarks {
		plaintext := []byte(bm.plaintext)
		b.Run(bm.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := cipher.Encrypt(plaintext); err != nil {
					b.Fatalf("Encrypt: %v", err)
				}
			}
		})
	}
}

// BenchmarkDecrypt benchmarks Decrypt over pre-encrypted fixtures.
func BenchmarkDecrypt(b *testing.B) {
	registerKeyManager()
	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("creating keyset handle: %v", err)
	}
	cipher, err := New(handle, []byte("benchmark-tweak"))
	if err != nil {
		b.Fatalf("creating cipher: %v", err)
	}

	plaintexts := []string{"1234", "1234567890", "123-45-6789", "4532-1234-5678-9010"}
	ciphertexts := make([][]byte, len(plaintexts))
	for i, p := range plaintexts {
		ct, err := cipher.Encrypt([]byte(p))
		if err != nil {
			b.Fatalf("encrypting fixture %d: %v", i, err)
		}
		ciphertexts[i] = ct
	}

	for i, name := range []string{"Short_4digits", "Medium_10digits", "SSN_Format", "CreditCard_Format"} {
		ct := ciphertexts[i]
		b.Run(name, func(b *testing.B) {
			b.ResetTimer()
			for j := 0; j < b.N; j++ {
				if _, err := cipher.Decrypt(ct); err != nil {
					b.Fatalf("Decrypt: %v", err)
				}
			}
		})
	}
}

// BenchmarkRoundTrip benchmarks the full encrypt-decrypt cycle.
func BenchmarkRoundTrip(b *testing.B) {
	registerKeyManager()
	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("creating keyset handle: %v", err)
	}
	cipher, err := New(handle, []byte("benchmark-tweak"))
	if err != nil {
		b.Fatalf("creating cipher: %v", err)
	}

	for _, tc := range []struct {
		name      string
		plaintext string
	}{
		{"Short_4digits", "1234"},
		{"Medium_10digits", "1234567890"},
		{"Long_16digits", "1234567890123456"},
		{"SSN_Format", "123-45-6789"},
		{"CreditCard_Format", "4532-1234-5678-9010"},
	} {
		plaintext := []byte(tc.plaintext)
		b.Run(tc.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ct, err := cipher.Encrypt(plaintext)
				if err != nil {
					b.Fatalf("Encrypt: %v", err)
				}
				if _, err := cipher.Decrypt(ct); err != nil {
					b.Fatalf("Decrypt: %v", err)
				}
			}
		})
	}
}

// BenchmarkKeySizes compares AES-128/192/256 key sizes.
func BenchmarkKeySizes(b *testing.B) {
	registerKeyManager()

	plaintext := []byte("1234567890")
	tweak := []byte("benchmark-tweak")

	for _, ks := range []struct {
		name string
		tmpl func() *tinkpb.KeyTemplate
	}{
		{"AES128", KeyTemplateAES128},
		{"AES192", KeyTemplateAES192},
		{"AES256", KeyTemplateAES256},
	} {
		b.Run(ks.name, func(b *testing.B) {
			handle, err := keyset.NewHandle(ks.tmpl())
			if err != nil {
				b.Fatalf("creating keyset handle: %v", err)
			}
			cipher, err := New(handle, tweak)
			if err != nil {
				b.Fatalf("creating cipher: %v", err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := cipher.Encrypt(plaintext); err != nil {
					b.Fatalf("Encrypt: %v", err)
				}
			}
		})
	}
}

// BenchmarkTweakVariations compares varying tweak lengths.
func BenchmarkTweakVariations(b *testing.B) {
	registerKeyManager()
	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("creating keyset handle: %v", err)
	}
	plaintext := []byte("1234567890")

	veryLong := make([]byte, 64)
	cryptorand.Read(veryLong)

	for _, tw := range []struct {
		name  string
		value []byte
	}{
		{"Empty", []byte("")},
		{"Short_8bytes", []byte("short-tw")},
		{"Medium_16bytes", []byte("medium-tweak-16b")},
		{"Long_32bytes", []byte("very-long-tweak-value-of-32bytes")},
		{"VeryLong_64bytes", veryLong},
	} {
		b.Run(tw.name, func(b *testing.B) {
			cipher, err := New(handle, tw.value)
			if err != nil {
				b.Fatalf("creating cipher: %v", err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := cipher.Encrypt(plaintext); err != nil {
					b.Fatalf("Encrypt: %v", err)
				}
			}
		})
	}
}

// BenchmarkConcurrent exercises Encrypt from multiple goroutines, since
// Cipher is documented safe for concurrent use.
func BenchmarkConcurrent(b *testing.B) {
	registerKeyManager()
	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("creating keyset handle: %v", err)
	}
	cipher, err := New(handle, []byte("benchmark-tweak"))
	if err != nil {
		b.Fatalf("creating cipher: %v", err)
	}

	plaintext := []byte("1234567890")

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := cipher.Encrypt(plaintext); err != nil {
				b.Fatalf("Encrypt: %v", err)
			}
		}
	})
}

// BenchmarkRandomInputs exercises a realistic workload of distinct random
// numeric inputs.
func BenchmarkRandomInputs(b *testing.B) {
	registerKeyManager()
	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("creating keyset handle: %v", err)
	}
	cipher, err := New(handle, []byte("benchmark-tweak"))
	if err != nil {
		b.Fatalf("creating cipher: %v", err)
	}

	inputs := make([][]byte, 1000)
	for i := range inputs {
		inputs[i] = []byte(generateRandomNumericString(10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cipher.Encrypt(inputs[i%len(inputs)]); err != nil {
			b.Fatalf("Encrypt: %v", err)
		}
	}
}

// BenchmarkFormatPreservation compares plain numeric vs. punctuation-heavy
// formatted inputs.
func BenchmarkFormatPreservation(b *testing.B) {
	registerKeyManager()
	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		b.Fatalf("creating keyset handle: %v", err)
	}
	cipher, err := New(handle, []byte("benchmark-tweak"))
	if err != nil {
		b.Fatalf("creating cipher: %v", err)
	}

	for _, bm := range []struct {
		name      string
		plaintext string
	}{
		{"Numeric_Only", "1234567890"},
		{"SSN_Format", "123-45-6789"},
		{"CreditCard_Format", "4532-1234-5678-9010"},
		{"Phone_Format", "555-123-4567"},
		{"Email_Format", "user@domain.com"},
	} {
		plaintext := []byte(bm.plaintext)
		b.Run(bm.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := cipher.Encrypt(plaintext); err != nil {
					b.Fatalf("Encrypt: %v", err)
				}
			}
		})
	}
}
