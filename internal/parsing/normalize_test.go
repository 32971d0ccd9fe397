package parsing

import (
	"testing"

	"github.com/jonathan/resume-analyzer/internal/vocab"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	v := vocab.MustDefault()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"golang to Golang", "golang", "Golang"},
		{"JavaScript normalization", "javascript", "JavaScript"},
		{"JS to JavaScript", "js", "JavaScript"},
		{"JS uppercase to JavaScript", "JS", "JavaScript"},
		{"K8s to Kubernetes", "k8s", "Kubernetes"},
		{"reactjs to React", "reactjs", "React"},
		{"nodejs to Node.js", "nodejs", "Node.js"},
		{"python to Python", "python", "Python"},
		{"unknown lowercase word capitalized", "terraformer", "Terraformer"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"inner whitespace collapsed", "Distributed   Systems", "Distributed Systems"},
		{"unknown multi-word stays as-is", "event sourcing", "event sourcing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(v, tt.input))
		})
	}
}

func TestNormalizeSkillName_NilVocabulary(t *testing.T) {
	assert.Equal(t, "Python", NormalizeSkillName(nil, "python"))
}

func TestDedupeFold(t *testing.T) {
	got := dedupeFold([]string{"Go", "go", "", "Python", "GO", "python", "Rust"})
	assert.Equal(t, []string{"Go", "Python", "Rust"}, got)
}

func TestIndexTerm(t *testing.T) {
	tests := []struct {
		text string
		term string
		want bool
	}{
		{"experience with java and spring", "java", true},
		{"experience with javascript", "java", false},
		{"c++ and rust", "c++", true},
		{"node.js services", "node.js", true},
		{"node.js services", "node", true},
		{"strong sql skills", "sql", true},
		{"nosql stores", "sql", false},
		{"", "sql", false},
		{"sql", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, indexTerm(tt.text, tt.term) >= 0)
		})
	}
}
