package reader

import (
	"errors"
	"fmt"

	"golang.org/x/text/transform"
)

var ErrInvalidEncoding = errors.New("invalid UTF-16LE text")

// utf16LEValidator passes UTF-16LE bytes through unchanged and fails on
// input the decoder would otherwise replace with U+FFFD: an odd byte
// count, unpaired surrogates, or a big-endian byte order mark.
type utf16LEValidator struct {
	offset int64
}

func (v *utf16LEValidator) Reset() {
	v.offset = 0
}

func (v *utf16LEValidator) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc+2 <= len(src) {
		u := uint16(src[nSrc]) | uint16(src[nSrc+1])<<8
		size := 2

		switch {
		case v.offset == 0 && u == 0xFFFE:
			return nDst, nSrc, v.invalid("big-endian byte order mark")
		case u >= 0xD800 && u <= 0xDBFF:
			if nSrc+4 > len(src) {
				if atEOF {
					return nDst, nSrc, v.invalid("unpaired high surrogate")
				}
				return nDst, nSrc, transform.ErrShortSrc
			}
			low := uint16(src[nSrc+2]) | uint16(src[nSrc+3])<<8
			if low < 0xDC00 || low > 0xDFFF {
				return nDst, nSrc, v.invalid("unpaired high surrogate")
			}
			size = 4
		case u >= 0xDC00 && u <= 0xDFFF:
			return nDst, nSrc, v.invalid("unpaired low surrogate")
		}

		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], src[nSrc:nSrc+size])
		nDst += size
		nSrc += size
		v.offset += int64(size)
	}

	if nSrc < len(src) {
		if atEOF {
			return nDst, nSrc, v.invalid("odd trailing byte")
		}
		return nDst, nSrc, transform.ErrShortSrc
	}
	return nDst, nSrc, nil
}

func (v *utf16LEValidator) invalid(reason string) error {
	return fmt.Errorf("%w: %s at byte %d", ErrInvalidEncoding, reason, v.offset)
}
