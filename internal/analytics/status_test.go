package analytics

import "testing"

func TestIsSuccessful(t *testing.T) {
	for _, s := range []string{"Успешный", " ОТВЕТ ", "answered", "Success"} {
		if !IsSuccessful(s) {
			t.Fatalf("expected %q to be successful", s)
		}
	}
	for _, s := range []string{"busy", "", "Занято", "успешно"} {
		if IsSuccessful(s) {
			t.Fatalf("expected %q not to be successful", s)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"89991234567":        "79991234567",
		"9991234567":         "79991234567",
		"+7 (999) 123-45-67": "79991234567",
		"79991234567":        "79991234567",
		"+1 202 555 0100 1":  "120255501001",
		"12345":              "12345",
		"n/a":                "",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Fatalf("NormalizePhone(%q): expected %q, got %q", in, want, got)
		}
	}
}
