package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeABC(t *testing.T) {
	ins := EncodeABC(CALL, 3, 1, 0)
	require.Equal(t, CALL, ins.Op())
	require.Equal(t, uint8(3), ins.A())
	require.Equal(t, uint8(1), ins.B())
	require.Equal(t, uint8(0), ins.C())
}

func TestEncodeDecodeAD(t *testing.T) {
	ins := EncodeAD(CAPTURE, uint8(CaptureIDX), 513)
	require.Equal(t, CAPTURE, ins.Op())
	require.Equal(t, uint8(CaptureIDX), ins.A())
	require.Equal(t, uint16(513), ins.D())
}

func TestEncodeDecodeE(t *testing.T) {
	ins := EncodeE(PUSHSI, 0xABCDEF)
	require.Equal(t, PUSHSI, ins.Op())
	require.Equal(t, uint32(0xABCDEF), ins.E())
}

func TestEMaxValue(t *testing.T) {
	ins := EncodeE(JMP, 1<<24-1)
	require.Equal(t, uint32(1<<24-1), ins.E())
}

func TestOpcodeString(t *testing.T) {
	require.Equal(t, "RET", RET.String())
	require.Equal(t, "CAPTURE", CAPTURE.String())
}
