package tag

import "testing"

func TestDecode(t *testing.T) {
	d, err := Decode("name=Alice\nphone=555\nurl=https://example.com/a")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if d.Fields["name"] != "Alice" || d.Fields["phone"] != "555" {
		t.Errorf("Fields mismatch: %+v", d.Fields)
	}
	if d.URL != "https://example.com/a" {
		t.Errorf("URL = %q", d.URL)
	}

	data := d.EntryData()
	if data["url"] != "https://example.com/a" {
		t.Error("EntryData should fold the url back in")
	}
	if data["name"] != "Alice" {
		t.Error("EntryData should carry the fields")
	}
}

func TestDecodeWhitespaceAndBlankLines(t *testing.T) {
	d, err := Decode("  name = Alice  \n\n phone=555 \n")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if d.Fields["name"] != "Alice" || d.Fields["phone"] != "555" {
		t.Errorf("Fields mismatch: %+v", d.Fields)
	}
}

func TestDecodeRejectsMissingName(t *testing.T) {
	if _, err := Decode("phone=555"); err == nil {
		t.Error("Payload without a name should be rejected")
	}
}

func TestDecodeRejectsMalformedLine(t *testing.T) {
	if _, err := Decode("name=Alice\njust-a-word"); err == nil {
		t.Error("Line without '=' should be rejected")
	}
}
