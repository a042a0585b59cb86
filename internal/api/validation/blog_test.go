package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGenerateBlogRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        GenerateBlogRequest
		wantFields []string
	}{
		{"valid", GenerateBlogRequest{Topic: "winter boots", Keywords: "boots"}, nil},
		{"missing topic", GenerateBlogRequest{Keywords: "boots"}, []string{"topic"}},
		{"missing keywords", GenerateBlogRequest{Topic: "winter boots"}, []string{"keywords"}},
		{"whitespace only", GenerateBlogRequest{Topic: "  ", Keywords: "\t"}, []string{"topic", "keywords"}},
		{"topic too long", GenerateBlogRequest{Topic: strings.Repeat("x", 501), Keywords: "boots"}, []string{"topic"}},
		{"keywords too long", GenerateBlogRequest{Topic: "boots", Keywords: strings.Repeat("x", 501)}, []string{"keywords"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := ValidateGenerateBlogRequest(tt.req)
			require.Len(t, errs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, errs[i].Field)
			}
		})
	}
}
