package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size
const (
	FontNormal = 0x00
	FontDouble = 0x11
)

// codePage850 is the ESC t table index of PC850, which covers Spanish
// accents and ñ.
const codePage850 = 2

// Document builds an ESC/POS byte stream for thermal printers. Text is
// encoded to PC850; runes outside it print as '?'.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document for a printer that fits charWidth
// characters per line: 32 on 58mm paper, 48 on 80mm.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Init resets the printer and selects the code page.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@', ESC, 't', codePage850})
	return d
}

func (d *Document) Width() int {
	return d.width
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.write(s)
	d.buf.WriteByte(LF)
	return d
}

// Separator prints char across the full width.
func (d *Document) Separator(char byte) *Document {
	d.buf.Write(bytes.Repeat([]byte{char}, d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key on the left and value flush right. A key too long
// for the line is truncated so the value always fits.
func (d *Document) KeyValue(key, value string) *Document {
	d.write(d.columns(key, value))
	d.buf.WriteByte(LF)
	return d
}

// columns lays left and right out on one line of the document width.
func (d *Document) columns(left, right string) string {
	room := d.width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		room = 1
	}
	left = truncate(left, room)
	spaces := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

// Cut sends a full paper cut.
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func (d *Document) write(s string) {
	for _, r := range s {
		if b, ok := charmap.CodePage850.EncodeRune(r); ok {
			d.buf.WriteByte(b)
		} else {
			d.buf.WriteByte('?')
		}
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "."
}
