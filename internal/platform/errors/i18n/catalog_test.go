package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if GetCatalog("") != base {
		t.Fatal("expected empty locale to resolve to en-US")
	}
	if GetCatalog("missing-locale") != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if got := GetCatalog("pt-BR").Locale(); got != "pt-BR" {
		t.Fatalf("pt-BR locale = %q", got)
	}
}

func TestFormatEmbeddedTemplate(t *testing.T) {
	got := GetCatalog("en-US").Format("INVALID_DIMENSION", map[string]string{"Max": "40"})
	if got != "The dimension must be between 1 and 40." {
		t.Fatalf("format = %q", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code":   "hello {{.Name}}",
		"broken": "{{ if .Name }}",
		"exec":   "{{ call .Name }}",
	})

	if got := cat.Format("unknown", nil); got != "unknown" {
		t.Fatalf("missing template = %q, want code", got)
	}
	if got := cat.Format("code", nil); got != "hello <no value>" {
		t.Fatalf("missing metadata = %q", got)
	}
	if got := cat.Format("broken", map[string]string{"Name": "X"}); got != "{{ if .Name }}" {
		t.Fatalf("parse error = %q", got)
	}
	if got := cat.Format("exec", map[string]string{"Name": "X"}); got != "{{ call .Name }}" {
		t.Fatalf("execute error = %q", got)
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}
