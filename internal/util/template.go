package util

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
	"text/template/parse"
)

const templateName = "prompt"

var templateCache sync.Map // template source -> *template.Template

// RenderTemplate renders a prompt template with the given data.
// Missing keys are an error; parsed templates are cached by source.
func RenderTemplate(tmpl string, data map[string]interface{}) (string, error) {
	t, err := parseTemplate(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ValidateTemplate parses a template without executing it
func ValidateTemplate(tmpl string) error {
	_, err := parseTemplate(tmpl)
	return err
}

func parseTemplate(tmpl string) (*template.Template, error) {
	if cached, ok := templateCache.Load(tmpl); ok {
		return cached.(*template.Template), nil
	}

	t, err := template.New(templateName).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if err := checkDirectives(t); err != nil {
		return nil, err
	}

	templateCache.Store(tmpl, t)
	return t, nil
}

// TruncateString truncates a string to maxLen runes (Unicode-safe), appending "..." when cut
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// checkDirectives rejects define, block, template and call anywhere in the parse tree.
// Prompt templates only need field access, conditionals and ranges.
func checkDirectives(t *template.Template) error {
	for _, assoc := range t.Templates() {
		if assoc.Name() != templateName {
			return fmt.Errorf("template contains forbidden directive: define %q", assoc.Name())
		}
	}
	if t.Tree == nil {
		return nil
	}
	return walkNode(t.Tree.Root)
}

func walkNode(node parse.Node) error {
	switch n := node.(type) {
	case nil:
		return nil
	case *parse.TemplateNode:
		return fmt.Errorf("template contains forbidden directive: template %q", n.Name)
	case *parse.IdentifierNode:
		if n.Ident == "call" {
			return fmt.Errorf("template contains forbidden directive: call")
		}
	case *parse.ListNode:
		if n == nil {
			return nil
		}
		for _, child := range n.Nodes {
			if err := walkNode(child); err != nil {
				return err
			}
		}
	case *parse.ActionNode:
		return walkNode(n.Pipe)
	case *parse.PipeNode:
		if n == nil {
			return nil
		}
		for _, cmd := range n.Cmds {
			if err := walkNode(cmd); err != nil {
				return err
			}
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			if err := walkNode(arg); err != nil {
				return err
			}
		}
	case *parse.ChainNode:
		return walkNode(n.Node)
	case *parse.IfNode:
		return walkBranch(&n.BranchNode)
	case *parse.RangeNode:
		return walkBranch(&n.BranchNode)
	case *parse.WithNode:
		return walkBranch(&n.BranchNode)
	}
	return nil
}

func walkBranch(b *parse.BranchNode) error {
	if err := walkNode(b.Pipe); err != nil {
		return err
	}
	if err := walkNode(b.List); err != nil {
		return err
	}
	return walkNode(b.ElseList)
}
