package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"10":     "10.00",
		"10.5":   "10.50",
		"10.00":  "10.00",
		"0":      "0.00",
		"7.999":  "8.00",
		"300.10": "300.10",
	}
	for in, want := range cases {
		got, err := FormatAmount(in)
		require.NoError(t, err, "price %q", in)
		assert.Equal(t, want, got, "price %q", in)
	}
}

func TestFormatAmountRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "10,50", "-1"} {
		_, err := FormatAmount(in)
		assert.Error(t, err, "price %q", in)
	}
}
