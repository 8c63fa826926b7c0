package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emosaker/leaf/lang/token"
)

func scanTokens(t *testing.T, src string) []TokenAndValue {
	t.Helper()
	toks, err := ScanAll("test.leaf", []byte(src))
	require.NoError(t, err)
	return toks
}

func kinds(toks []TokenAndValue) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tv := range toks {
		out[i] = tv.Tok
	}
	return out
}

func TestScanIdentsAndKeywords(t *testing.T) {
	toks := scanTokens(t, "var x = foo")
	require.Equal(t, []token.Token{token.VAR, token.IDENT, token.EQ, token.IDENT, token.EOF}, kinds(toks))
	require.Equal(t, "x", toks[1].Val.Raw)
}

func TestScanNumbers(t *testing.T) {
	toks := scanTokens(t, "1 0x2A 3.14 2e10")
	require.Equal(t, []token.Token{token.INT, token.INT, token.FLOAT, token.FLOAT, token.EOF}, kinds(toks))
	require.Equal(t, int64(1), toks[0].Val.Int)
	require.Equal(t, int64(42), toks[1].Val.Int)
	require.InDelta(t, 3.14, toks[2].Val.Float, 1e-9)
	require.InDelta(t, 2e10, toks[3].Val.Float, 1)
}

func TestScanString(t *testing.T) {
	toks := scanTokens(t, `"hi\n\"there\""`)
	require.Equal(t, token.STRING, toks[0].Tok)
	require.Equal(t, "hi\n\"there\"", toks[0].Val.String)
}

func TestScanPunctuation(t *testing.T) {
	toks := scanTokens(t, "** && || == != <= >= << >>")
	require.Equal(t, []token.Token{
		token.STARSTAR, token.ANDAND, token.OROR, token.EQEQ, token.NEQ,
		token.LE, token.GE, token.LTLT, token.GTGT, token.EOF,
	}, kinds(toks))
}

func TestScanComments(t *testing.T) {
	toks := scanTokens(t, "1 // line comment\n/* block\ncomment */ 2")
	require.Equal(t, []token.Token{token.INT, token.INT, token.EOF}, kinds(toks))
}

func TestScanPositions(t *testing.T) {
	toks := scanTokens(t, "var\nx")
	require.Equal(t, 1, toks[0].Pos.Line)
	require.Equal(t, 2, toks[1].Pos.Line)
}

func TestScanErrors(t *testing.T) {
	_, err := ScanAll("test.leaf", []byte("@"))
	require.Error(t, err)
	var el ErrorList
	require.ErrorAs(t, err, &el)
	require.Len(t, el, 1)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := ScanAll("test.leaf", []byte(`"no end`))
	require.Error(t, err)
}
