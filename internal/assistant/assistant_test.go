package assistant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnitReply(t *testing.T) {
	a := New(DefaultRules)

	for name, tc := range map[string]struct {
		text     string
		expected string
	}{
		"greeting": {
			text:     "Ciao!",
			expected: DefaultRules[0].Response,
		},
		"case insensitive": {
			text:     "Quando arriva il PAGAMENTO?",
			expected: DefaultRules[1].Response,
		},
		"first rule wins": {
			text:     "ciao, ho una domanda sul pagamento",
			expected: DefaultRules[0].Response,
		},
		"fallback": {
			text:     "qualcosa di diverso",
			expected: Fallback,
		},
		"empty": {
			text:     "",
			expected: Fallback,
		},
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, a.Reply(tc.text))
		})
	}
}

func TestUnitCustomRules(t *testing.T) {
	a := New([]Rule{
		{Keywords: []string{"b"}, Response: "second"},
		{Keywords: []string{"a"}, Response: "first"},
	})

	require.Equal(t, "second", a.Reply("ab"))
	require.Equal(t, "first", a.Reply("a"))
	require.Equal(t, Fallback, New(nil).Reply("a"))
}
