package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeYAML_SortsKeysDeterministically(t *testing.T) {
	fields := map[string]any{
		"title": "Founder",
		"date":  "2020 - 2022",
		"tags":  []any{"Python", "Golang"},
	}

	out, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "date: 2020 - 2022\ntags:\n  - Python\n  - Golang\ntitle: Founder\n", string(out))
}

func TestSerializeYAML_EmptyMap(t *testing.T) {
	out, err := SerializeYAML(map[string]any{}, Style{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSerializeYAML_CRLF(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"a": "b", "c": "d"}, Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "a: b\r\nc: d\r\n", string(out))
}

func TestRoundTrip_YAML_LosslessOnKeysAndValues(t *testing.T) {
	inputs := []string{
		"title: Founder\ndate: 2020 - 2022\ntags: [Python, Golang]\n",
		"title: \"Quoted: colon\"\ndraft: true\nweight: 10\nratio: 0.5\n",
		"title: Post\ndate: 2023-04-01\nauthor: someone\nextra:\n  nested: value\n  list: [1, 2]\n",
		"title: 'yes'\nempty: null\n",
	}

	for _, in := range inputs {
		first, err := ParseYAML([]byte(in))
		require.NoError(t, err, in)

		out, err := SerializeYAML(first, Style{Format: FormatYAML, Newline: "\n"})
		require.NoError(t, err, in)

		second, err := ParseYAML(out)
		require.NoError(t, err, string(out))
		require.Equal(t, first, second, "round trip for %q produced %q", in, out)
	}
}

func TestRoundTrip_TOML_LosslessOnKeysAndValues(t *testing.T) {
	in := "title = \"Founder\"\ntags = [\"react\", \"git\"]\nweight = 3\n[extra]\nnote = \"x\"\n"

	first, err := ParseTOML([]byte(in))
	require.NoError(t, err)

	out, err := Serialize(first, Style{Format: FormatTOML, Newline: "\n"})
	require.NoError(t, err)

	second, err := ParseTOML(out)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
