package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/hellodays/internal/normalize"
)

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Éva", "eva"},
		{"Eva", "eva"},
		{"ÁDÁM", "adam"},
		{"Győző", "gyozo"},
		{"Örs", "ors"},
		{"Katarína", "katarina"},
		{"Zoë", "zoe"},
		{"e\u0301va", "eva"}, // already decomposed input
		{"", ""},
		{"Anna-Mária", "anna-maria"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Name(tt.in))
		})
	}
}

func TestName_Idempotent(t *testing.T) {
	inputs := []string{"Éva", "Szilveszter", "Lőrinc", "ÅSA", "İlker", "Ştefan", "José María", "Ådne", "日本"}
	for _, in := range inputs {
		once := normalize.Name(in)
		assert.Equal(t, once, normalize.Name(once), "normalize must be idempotent for %q", in)
	}
}
