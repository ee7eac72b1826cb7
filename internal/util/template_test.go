package util

import (
	"strings"
	"sync"
	"testing"
)

func TestRenderTemplate_Basic(t *testing.T) {
	tmpl := "Convert this {{.DocumentType}} document:\n\n{{.Document}}"
	data := map[string]interface{}{
		"DocumentType": "Adopt-A-Highway",
		"Document":     "County Name: ____",
	}

	result, err := RenderTemplate(tmpl, data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "Convert this Adopt-A-Highway document:\n\nCounty Name: ____"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestRenderTemplate_LiteralJSONShape(t *testing.T) {
	tmpl := `Return JSON:
{
    "title": "{{.DocumentType}} Application",
    "sections": []
}`
	result, err := RenderTemplate(tmpl, map[string]interface{}{"DocumentType": "Grant"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(result, `"title": "Grant Application"`) {
		t.Errorf("Expected rendered title in result: %s", result)
	}
}

func TestRenderTemplate_DataIsNotReinterpreted(t *testing.T) {
	result, err := RenderTemplate("Doc: {{.Document}}", map[string]interface{}{
		"Document": "{{.Secret}} {{call .Fn}}",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != "Doc: {{.Secret}} {{call .Fn}}" {
		t.Errorf("Document content should be rendered verbatim, got '%s'", result)
	}
}

func TestRenderTemplate_InvalidTemplate(t *testing.T) {
	_, err := RenderTemplate("Hello {{.Name", map[string]interface{}{"Name": "Alice"})
	if err == nil {
		t.Error("Expected error for invalid template, got nil")
	}
}

func TestRenderTemplate_MissingKey(t *testing.T) {
	_, err := RenderTemplate("Hello {{.Name}}", map[string]interface{}{})
	if err == nil {
		t.Error("Expected error for missing key, got nil")
	}
}

func TestRenderTemplate_ForbiddenDirectives(t *testing.T) {
	tests := []string{
		`{{call .Fn}}`,
		`{{define "x"}}hi{{end}}`,
		`{{template "x"}}`,
		`{{block "x" .}}hi{{end}}`,
		`{{ define "x" }}hi{{ end }}{{ template "x" }}`,
		`{{- block "y" . }}z{{ end }}`,
		`{{ call .Fn }}`,
		`{{if .Ok}}{{ template "x" }}{{end}}`,
		`{{range .Items}}{{else}}{{- template "x" -}}{{end}}`,
		`{{ .Name | call }}`,
	}

	for _, tmpl := range tests {
		t.Run(tmpl, func(t *testing.T) {
			_, err := RenderTemplate(tmpl, map[string]interface{}{})
			if err == nil || !strings.Contains(err.Error(), "forbidden directive") {
				t.Errorf("RenderTemplate(%q) error = %v, want forbidden directive", tmpl, err)
			}
		})
	}
}

func TestRenderTemplate_AllowsPlainActions(t *testing.T) {
	tmpl := `{{- if .Items}}{{range $i, $v := .Items}}{{$i}}={{$v}} {{end}}{{else}}none{{end -}}`
	got, err := RenderTemplate(tmpl, map[string]interface{}{"Items": []string{"a", "b"}})
	if err != nil {
		t.Fatalf("RenderTemplate() error = %v", err)
	}
	if got != "0=a 1=b " {
		t.Errorf("RenderTemplate() = %q", got)
	}
}

func TestRenderTemplate_Deterministic(t *testing.T) {
	tmpl := "Q: {{.Question}}\nA: {{.Answer}}"
	data := map[string]interface{}{"Question": "County?", "Answer": "Orange"}

	first, err := RenderTemplate(tmpl, data)
	if err != nil {
		t.Fatalf("First render failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := RenderTemplate(tmpl, data)
		if err != nil {
			t.Fatalf("Render %d failed: %v", i, err)
		}
		if again != first {
			t.Fatalf("Render %d = %q, want %q", i, again, first)
		}
	}
}

func TestRenderTemplate_ConcurrentUse(t *testing.T) {
	tmpl := "Hello {{.Name}}"

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := RenderTemplate(tmpl, map[string]interface{}{"Name": "Gopher"})
			if err != nil {
				errs <- err
				return
			}
			if got != "Hello Gopher" {
				errs <- &mismatchError{got: got}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

type mismatchError struct{ got string }

func (e *mismatchError) Error() string { return "unexpected render: " + e.got }

func TestValidateTemplate(t *testing.T) {
	if err := ValidateTemplate("{{.Document}}"); err != nil {
		t.Errorf("Expected valid template, got %v", err)
	}
	if err := ValidateTemplate("{{.Document"); err == nil {
		t.Error("Expected parse error, got nil")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello..."},
		{"multibyte", "héllo wörld", 4, "héll..."},
		{"empty", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
