package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptedExtension(t *testing.T) {
	accepted := []string{"a.pdf", "b.DOCX", "c.json", "d.txt", "e.md", "dir.name.PDF"}
	for _, name := range accepted {
		assert.True(t, AcceptedExtension(name), "expected %q accepted", name)
	}

	rejected := []string{"a.exe", "b.zip", "noext", "trailingdot.", ".pdfx", "a.pdf.bak"}
	for _, name := range rejected {
		assert.False(t, AcceptedExtension(name), "expected %q rejected", name)
	}
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "PDF", FileType("manual.pdf"))
	assert.Equal(t, "DOCX", FileType("ref.docx"))
	assert.Equal(t, "FILE", FileType("noextension"))
}
