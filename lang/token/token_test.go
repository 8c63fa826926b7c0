package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.NotEmpty(t, tok.String())
	}
	require.Equal(t, "illegal token", Token(-1).String())
	require.Equal(t, "illegal token", maxToken.String())
}

func TestGoString(t *testing.T) {
	require.Equal(t, "'+'", PLUS.GoString())
	require.Equal(t, "identifier", IDENT.GoString())
	require.Equal(t, "var", VAR.GoString())
}

func TestKeywords(t *testing.T) {
	want := []Token{VAR, CONST, REF, IF, ELSE, WHILE, RETURN, INCLUDE, FN, CLASS, TRUE, FALSE, NULL}
	require.Len(t, Keywords, len(want))
	for _, tok := range want {
		got, ok := Keywords[tok.String()]
		require.True(t, ok)
		require.Equal(t, tok, got)
	}
	_, ok := Keywords["notakeyword"]
	require.False(t, ok)
}
