package gcs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeObjectPath(t *testing.T) {
	cases := map[string]string{
		"products/acai-1.png":    "products/acai-1.png",
		" /products//acai.png ":  "products/acai.png",
		`reports\relatorio.xlsx`: "reports/relatorio.xlsx",
		"../../etc/passwd":       "etc/passwd",
		"./":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeObjectPath(in), in)
	}
}

func TestPublicURL_EscapesSegments(t *testing.T) {
	got := publicURL("softshake-img", "products/bolo de pote.png")
	assert.Equal(t, "https://storage.googleapis.com/softshake-img/products/bolo%20de%20pote.png", got)
}

func TestObjectStoreGCS_NotConfigured(t *testing.T) {
	var s *ObjectStoreGCS
	_, err := s.Put(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	assert.Error(t, err)

	s = NewObjectStoreGCS(nil, "bucket")
	_, err = s.Put(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}
