package sexpr

import (
	"bytes"
	"testing"

	"golang.org/x/text/unicode/norm"
)

// nfc and nfd are two distinct byte-level spellings of the word "café"
// that normalize to the same string: nfc uses the precomposed e-acute
// rune, nfd spells it as a bare e followed by a combining acute accent.
const (
	nfcCafe = "café"
	nfdCafe = "café"
)

// TestBOMStripping verifies that UTF-8 BOM is removed
func TestBOMStripping(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{
			name:     "with_bom",
			input:    []byte{0xEF, 0xBB, 0xBF, 'h', 'e', 'l', 'l', 'o'},
			expected: []byte("hello"),
		},
		{
			name:     "without_bom",
			input:    []byte("hello"),
			expected: []byte("hello"),
		},
		{
			name:     "empty_with_bom",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: []byte{},
		},
		{
			name:     "empty_without_bom",
			input:    []byte{},
			expected: []byte{},
		},
		{
			name:     "partial_bom",
			input:    []byte{0xEF, 0xBB, 'h', 'i'},
			expected: []byte{0xEF, 0xBB, 'h', 'i'}, // Not a valid BOM
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if !bytes.Equal(result, tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// TestNFCNormalization verifies Unicode normalization
func TestNFCNormalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already_nfc",
			input:    nfcCafe,
			expected: nfcCafe,
		},
		{
			name:     "nfd_to_nfc",
			input:    nfdCafe,
			expected: nfcCafe,
		},
		{
			name:     "ascii_unchanged",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "mixed_unicode",
			input:    "naive " + nfdCafe,
			expected: "naive " + nfcCafe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(Normalize([]byte(tt.input)))
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
			if !norm.NFC.IsNormalString(result) {
				t.Errorf("Result is not in NFC form")
			}
		})
	}
}

// TestBOMAndNFC verifies both BOM stripping and NFC normalization together
func TestBOMAndNFC(t *testing.T) {
	input := append(append([]byte(nil), bomUTF8...), []byte(nfdCafe)...)
	expected := nfcCafe

	result := string(Normalize(input))
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}
	if !norm.NFC.IsNormalString(result) {
		t.Errorf("Result is not in NFC form")
	}
}

// TestNormalizeIdempotent verifies that normalizing twice has no effect
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"hello",
		nfcCafe,
		nfdCafe,
		"\xEF\xBB\xBFhello",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Normalize([]byte(input))
			second := Normalize(first)

			if !bytes.Equal(first, second) {
				t.Errorf("Normalize is not idempotent: first=%q, second=%q", first, second)
			}
		})
	}
}

// tokensOf lexes a normalized source to completion, failing the test on any
// lex error.
func tokensOf(t *testing.T, src string) []Token {
	t.Helper()
	normalized := Normalize([]byte(src))
	l := New(string(normalized))
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken() error on %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

// TestCanaryDeterministicParsing ensures lexically equivalent source
// produces identical token output regardless of encoding variations (LF vs
// CRLF, NFC vs NFD, with or without a BOM). The source is an `ind` form
// whose name string carries the variation, since that is the one place a
// kernel term embeds free-form Unicode text.
func TestCanaryDeterministicParsing(t *testing.T) {
	form := func(name string) string {
		return `(ind Set0 "` + name + `"` + "\n" + `() (()()))`
	}

	variants := []struct {
		name  string
		input string
	}{
		{name: "lf_nfc", input: form(nfcCafe)},
		{name: "crlf_nfc", input: crlf(form(nfcCafe))},
		{name: "lf_nfd", input: form(nfdCafe)},
		{name: "crlf_nfd", input: crlf(form(nfdCafe))},
		{name: "bom_lf_nfc", input: "\xEF\xBB\xBF" + form(nfcCafe)},
	}

	var outputs [][]Token
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			outputs = append(outputs, tokensOf(t, v.input))
		})
	}

	baseline := outputs[0]
	for i, toks := range outputs[1:] {
		if len(toks) != len(baseline) {
			t.Fatalf("variant %d: token count mismatch: %d vs %d", i+1, len(toks), len(baseline))
		}
		for j := range toks {
			if toks[j].Type != baseline[j].Type || toks[j].Literal != baseline[j].Literal {
				t.Errorf("variant %d: token %d mismatch: %v vs %v", i+1, j, toks[j], baseline[j])
			}
		}
	}
}

func crlf(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		if r == '\n' {
			out.WriteByte('\r')
		}
		out.WriteRune(r)
	}
	return out.String()
}

// TestNormalizePreservesSemantics verifies normalization doesn't change the
// token stream produced for inputs that need no normalization at all, and
// correctly folds the ones that do.
func TestNormalizePreservesSemantics(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "ind_form", input: `(ind Set0 "unit" () (()()))`},
		{name: "unicode_name_nfc", input: `(ind Set0 "` + nfcCafe + `" () (()()))`},
		{name: "vcon_form", input: `(vcon 0 0)`},
		{name: "comment", input: "// a comment\n" + `(for () Set0)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseline := New(tt.input)
			var before []Token
			for {
				tok, err := baseline.NextToken()
				if err != nil {
					t.Fatalf("NextToken() error: %v", err)
				}
				before = append(before, tok)
				if tok.Type == EOF {
					break
				}
			}

			after := tokensOf(t, tt.input)

			if len(before) != len(after) {
				t.Fatalf("token count mismatch: %d vs %d", len(before), len(after))
			}
			for i := range before {
				if before[i].Type != after[i].Type {
					t.Errorf("token %d type mismatch: %v vs %v", i, before[i].Type, after[i].Type)
				}
			}
		})
	}
}

// TestNormalizeDeterminism verifies Normalize() produces stable output
func TestNormalizeDeterminism(t *testing.T) {
	input := []byte("\xEF\xBB\xBF" + nfdCafe)

	var results [][]byte
	for i := 0; i < 100; i++ {
		result := Normalize(append([]byte(nil), input...))
		results = append(results, result)
	}

	baseline := results[0]
	for i, result := range results[1:] {
		if !bytes.Equal(result, baseline) {
			t.Errorf("Iteration %d produced different output", i+1)
		}
	}
}
