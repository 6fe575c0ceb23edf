package ecfr_test

import (
	"testing"

	"github.com/JaimeStill/proctor/internal/ecfr"
)

const titleXML = `<?xml version="1.0" encoding="UTF-8"?>
<DLPSTEXTCLASS>
  <TEXT>
    <BODY>
      <ECFRBRWS>
        <DIV1 N="12" TYPE="TITLE">
          <HEAD>Title 12</HEAD>
          <DIV3 N="I" TYPE="CHAPTER">
            <HEAD>Chapter I</HEAD>
            <P>Banks shall maintain adequate reserves.</P>
          </DIV3>
          <DIV3 N="II" TYPE="CHAPTER">
            <HEAD>Chapter II</HEAD>
            <P>Credit unions must report quarterly.</P>
          </DIV3>
        </DIV1>
      </ECFRBRWS>
    </BODY>
  </TEXT>
</DLPSTEXTCLASS>`

func TestParseTitle(t *testing.T) {
	content, err := ecfr.ParseTitle(titleXML)
	if err != nil {
		t.Fatalf("ParseTitle() error = %v", err)
	}

	if content.WordCount == 0 {
		t.Error("full text word count should be positive")
	}
	if content.Checksum == "" {
		t.Error("full text checksum should be set")
	}

	if len(content.Chapters) != 2 {
		t.Fatalf("chapters = %d, want 2", len(content.Chapters))
	}

	one, ok := content.Chapters["I"]
	if !ok {
		t.Fatal("chapter I missing")
	}
	if one.WordCount == 0 {
		t.Error("chapter I word count should be positive")
	}

	two := content.Chapters["II"]
	if one.Text == two.Text {
		t.Error("chapter texts should differ")
	}

	if content.WordCount < one.WordCount+two.WordCount {
		t.Errorf("full text words %d should cover chapter words %d + %d",
			content.WordCount, one.WordCount, two.WordCount)
	}
}

func TestParseTitleMalformedMarkup(t *testing.T) {
	// eCFR documents carry HTML-ish fragments; the decoder runs non-strict.
	content, err := ecfr.ParseTitle(`<DIV1><P>unclosed paragraph<BR></DIV1>`)
	if err != nil {
		t.Fatalf("ParseTitle() error = %v", err)
	}
	if content.WordCount != 2 {
		t.Errorf("word count = %d, want 2", content.WordCount)
	}
}

func TestParseTitleEmptyDocument(t *testing.T) {
	content, err := ecfr.ParseTitle("")
	if err != nil {
		t.Fatalf("ParseTitle() error = %v", err)
	}
	if content.WordCount != 0 || len(content.Chapters) != 0 {
		t.Errorf("empty document should yield empty content: %+v", content)
	}
}
