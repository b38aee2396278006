package render

import (
	"io"

	"github.com/mdp/qrterminal/v3"
)

// WriteTerminal prints content as a block-character QR code to w.
func WriteTerminal(w io.Writer, content string) error {
	if err := Validate(content); err != nil {
		return err
	}
	qrterminal.GenerateWithConfig(content, qrterminal.Config{
		Level:          qrterminal.H,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      Margin,
	})
	return nil
}
