package fpe

// Option configures a Cipher built by New.
type Option func(*config)

type config struct {
	asciiPresets []func() (*IndexedGlyphSet, error)
	blockNames   []string
	customSets   []*IndexedGlyphSet
	noASCII      bool
}

// WithASCIIPresets selects which of the five ASCII categories (control,
// whitespace, digits, letters, symbols) to dispatch as their own alphabets.
// With no WithASCIIPresets or WithoutASCIIPresets call, New registers all
// five.
func WithASCIIPresets(names ...string) Option {
	return func(c *config) {
		for _, n := range names {
			switch n {
			case "control":
				c.asciiPresets = append(c.asciiPresets, ControlSet)
			case "whitespace":
				c.asciiPresets = append(c.asciiPresets, WhitespaceSet)
			case "digits":
				c.asciiPresets = append(c.asciiPresets, DigitSet)
			case "letters":
				c.asciiPresets = append(c.asciiPresets, LetterSet)
			case "symbols":
				c.asciiPresets = append(c.asciiPresets, SymbolSet)
			}
		}
	}
}

// WithoutASCIIPresets disables the default all-five ASCII registration, for
// callers who only want WithBlocks and/or WithCustomAlphabet.
func WithoutASCIIPresets() Option {
	return func(c *config) { c.noASCII = true }
}

// WithBlocks adds one or more preset non-ASCII Unicode blocks (see
// BlockNames) as their own alphabets.
func WithBlocks(names ...string) Option {
	return func(c *config) {
		c.blockNames = append(c.blockNames, names...)
	}
}

// WithCustomAlphabet registers an additional caller-supplied alphabet.
// Custom alphabets are always registered before any preset, so a custom
// alphabet's claim on a code point always wins over a preset's (Router's
// first-registration-wins rule, spec.md §4.4).
func WithCustomAlphabet(set *IndexedGlyphSet) Option {
	return func(c *config) { c.customSets = append(c.customSets, set) }
}
