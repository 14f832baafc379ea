package fpe

import "fmt"

// New builds a Cipher: a key and tweak shared by every registered alphabet,
// plus a set of alphabets selected by opts. With no options, New registers
// all five ASCII presets (control, whitespace, digits, letters, symbols)
// and no Unicode blocks — everything else passes through unchanged.
//
// key must be 16, 24, or 32 bytes (AES-128/192/256); tweak is an arbitrary
// public value bound into every alphabet's derived key, per spec.md §4.2.
func New(key, tweak []byte, opts ...Option) (*Cipher, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.noASCII && len(cfg.asciiPresets) == 0 {
		cfg.asciiPresets = []func() (*IndexedGlyphSet, error){ControlSet, WhitespaceSet, DigitSet, LetterSet, SymbolSet}
	}

	var ciphers []*GlyphCipher

	for _, custom := range cfg.customSets {
		c, err := NewGlyphCipher(custom, key, tweak)
		if err != nil {
			return nil, fmt.Errorf("fpe: custom alphabet %q: %w", custom.Name(), err)
		}
		ciphers = append(ciphers, c)
	}

	for _, build := range cfg.asciiPresets {
		set, err := build()
		if err != nil {
			return nil, fmt.Errorf("fpe: ascii preset: %w", err)
		}
		c, err := NewGlyphCipher(set, key, tweak)
		if err != nil {
			return nil, fmt.Errorf("fpe: ascii preset %q: %w", set.Name(), err)
		}
		ciphers = append(ciphers, c)
	}

	for _, name := range cfg.blockNames {
		set, err := BlockSet(name)
		if err != nil {
			return nil, err
		}
		c, err := NewGlyphCipher(set, key, tweak)
		if err != nil {
			return nil, fmt.Errorf("fpe: block %q: %w", name, err)
		}
		ciphers = append(ciphers, c)
	}

	if len(ciphers) == 0 {
		return nil, fmt.Errorf("%w: no alphabets registered (check WithoutASCIIPresets usage)", ErrInvalidAlphabet)
	}

	passthroughSet, err := NewIndexedGlyphSet("passthrough", []byte{0x00, 0x01})
	if err != nil {
		return nil, fmt.Errorf("fpe: building passthrough alphabet: %w", err)
	}
	passthrough := NewNoopGlyphCipher(passthroughSet)

	router, err := NewRouter(ciphers, passthrough)
	if err != nil {
		return nil, err
	}

	return NewCipher(router), nil
}
