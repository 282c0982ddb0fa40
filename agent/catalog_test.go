package agent

import (
	"strings"
	"testing"

	"github.com/X10NLUN1X/xionimus/model"
)

func TestParseKindRoundTrip(t *testing.T) {
	for _, kind := range AllKinds {
		parsed, err := ParseKind(kind.String())
		if err != nil {
			t.Fatalf("ParseKind(%q) failed: %v", kind.String(), err)
		}
		if parsed != kind {
			t.Errorf("round trip for %s gave %s", kind, parsed)
		}
	}
}

func TestParseKindUnknown(t *testing.T) {
	if _, err := ParseKind("Ops Agent"); err == nil {
		t.Error("expected error for unknown agent name")
	}
}

func TestSpecCompleteness(t *testing.T) {
	for _, kind := range AllKinds {
		spec := kind.Spec()
		if spec.Name == "" {
			t.Errorf("%v: empty name", kind)
		}
		if spec.Model == "" {
			t.Errorf("%s: empty model", spec.Name)
		}
		if spec.SystemPrompt == "" {
			t.Errorf("%s: empty system prompt", spec.Name)
		}
		if !strings.Contains(spec.Template, "%s") {
			t.Errorf("%s: template %q has no request placeholder", spec.Name, spec.Template)
		}
		if len(spec.Keywords) == 0 {
			t.Errorf("%s: no trigger keywords", spec.Name)
		}
	}
}

func TestSubPromptRendersRequest(t *testing.T) {
	prompt := KindCode.SubPrompt("build a parser")

	if prompt != "Generate code implementation for: build a parser" {
		t.Errorf("unexpected sub-prompt: %q", prompt)
	}
}

func TestKindDomains(t *testing.T) {
	cases := []struct {
		kind Kind
		want model.Domain
	}{
		{KindCode, model.DomainCode},
		{KindResearch, model.DomainResearch},
		{KindWriting, model.DomainWriting},
		{KindData, model.DomainDataAnalysis},
		{KindQA, model.DomainTesting},
	}

	for _, c := range cases {
		if got := c.kind.Domain(); got != c.want {
			t.Errorf("%s: expected domain %s, got %s", c.kind, c.want, got)
		}
	}
}

func TestAllKindsUniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, kind := range AllKinds {
		name := kind.String()
		if seen[name] {
			t.Errorf("duplicate agent name %q", name)
		}
		seen[name] = true
	}
}
