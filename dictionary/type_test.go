package dictionary

import "testing"

func TestCompareNumb(t *testing.T) {
	tv := &TypeValidator{Primitive: PrimNumb}
	if tv.Compare("1.5", "2") >= 0 {
		t.Fatalf("expected 1.5 < 2")
	}
	if tv.Compare("12.3(4)", "12.3") != 0 {
		t.Fatalf("expected su-suffix stripped before comparison")
	}
	if tv.Compare("abc", "1") >= 0 {
		t.Fatalf("parsable side should compare greater")
	}
}

func TestCompareUchar(t *testing.T) {
	tv := &TypeValidator{Primitive: PrimUchar}
	if tv.Compare("ABC", "abc") != 0 {
		t.Fatalf("expected case-insensitive equality")
	}
	if tv.Compare("a  b", "a b") != 0 {
		t.Fatalf("expected collapsed internal whitespace to compare equal")
	}
}

func TestCompareChar(t *testing.T) {
	tv := &TypeValidator{Primitive: PrimChar}
	if tv.Compare("ABC", "abc") == 0 {
		t.Fatalf("expected bytewise comparison to be case-sensitive")
	}
}

func TestCompileConstruct(t *testing.T) {
	re, err := compileConstruct(`[0-9]+\.[0-9]+`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !re.MatchString("1.5") {
		t.Fatalf("expected construct to match")
	}
	if re.MatchString("abc") {
		t.Fatalf("expected construct not to match")
	}
}

func TestParsePrimitive(t *testing.T) {
	if ParsePrimitive("uchar") != PrimUchar {
		t.Fatalf("expected uchar")
	}
	if ParsePrimitive("numb") != PrimNumb {
		t.Fatalf("expected numb")
	}
	if ParsePrimitive("code") != PrimChar {
		t.Fatalf("expected unrecognized codes to default to char")
	}
}
