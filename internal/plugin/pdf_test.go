package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shubham030/forensic-carver/internal/byteview"
)

func TestPDFFooterUsesLastEOF(t *testing.T) {
	p := newPDFPlugin()

	body := []byte("%PDF-1.4\n...%%EOF\n<update>%%EOF")
	v := byteview.NewBufferView(body)

	header, ok := p.FindHeader(v, 0)
	require.True(t, ok)
	require.EqualValues(t, 0, header)

	end, ok := p.FindFooter(v, header, v.Length())
	require.True(t, ok)

	lastEOF := len(body) - len(pdfEOF)
	require.EqualValues(t, lastEOF+len(pdfEOF), end)
	require.EqualValues(t, len(body), end)
}

func TestPDFFragmentedBridgeUsesFirstEOF(t *testing.T) {
	p := newPDFPlugin()

	body := []byte("%PDF-1.4\nbody%%EOFmore-data%%EOFtail")
	v := byteview.NewBufferView(body)

	firstEnd, ok := p.FragmentedTryBridge(v, 0, v.Length(), 4096)
	require.True(t, ok)

	lastEnd, ok := p.FindFooter(v, 0, v.Length())
	require.True(t, ok)

	require.Less(t, firstEnd, lastEnd)
}

func TestPDFValidateLenientOnMalformedStartxref(t *testing.T) {
	p := newPDFPlugin()
	data := []byte("%PDF-1.4\nbody%%EOF\nstartxref\nNOT-A-NUMBER\n%%EOF")
	require.True(t, p.Validate(data))
}

func TestPDFValidateRequiresHeaderAndEOF(t *testing.T) {
	p := newPDFPlugin()
	require.False(t, p.Validate([]byte("not a pdf")))
	require.False(t, p.Validate([]byte("%PDF-1.4\nno eof marker here")))
}
