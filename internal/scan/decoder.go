package scan

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoCode means a frame was readable but held no QR code.
var ErrNoCode = errors.New("no QR code in frame")

// FrameDecoder turns one camera frame into QR text.
type FrameDecoder interface {
	Decode(img image.Image) (string, error)
}

// QRDecoder decodes QR codes with gozxing.
type QRDecoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewQRDecoder returns a decoder that tries hard on low-quality frames.
func NewQRDecoder() *QRDecoder {
	return &QRDecoder{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Decode implements FrameDecoder. A new reader is used per call since
// gozxing readers keep state between decodes.
func (d *QRDecoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("prepare frame: %w", err)
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	return result.GetText(), nil
}

// DecodeFrame decodes an encoded JPEG or PNG frame.
func DecodeFrame(d FrameDecoder, frame []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return "", fmt.Errorf("read frame: %w", err)
	}
	return d.Decode(img)
}
