package docmodel

import (
	"testing"
	"time"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, path, content string) *Document {
	t.Helper()
	doc, err := Parse(path, []byte(content))
	require.NoError(t, err)
	return doc
}

func TestResolve_SelectsVariantByCategory(t *testing.T) {
	cases := []struct {
		path    string
		content string
		check   func(t *testing.T, e Entry)
	}{
		{
			path:    "works/founder.md",
			content: "---\ntitle: Founder\ndate: 2020 - 2022\norg: Acme\nlocation: Oslo\n---\n",
			check: func(t *testing.T, e Entry) {
				w, ok := e.(*WorkEntry)
				require.True(t, ok)
				require.Equal(t, "Acme", w.Org)
				require.Equal(t, "Oslo", w.Location)
			},
		},
		{
			path:    "projects/folio.md",
			content: "---\ntitle: Folio\nurl: https://example.com\n---\n",
			check: func(t *testing.T, e Entry) {
				p, ok := e.(*ProjectEntry)
				require.True(t, ok)
				require.Equal(t, "https://example.com", p.URL)
			},
		},
		{
			path:    "posts/tokens.md",
			content: "---\ntitle: Tokens\ndate: 2023-04-01\nauthor: me\n---\n",
			check: func(t *testing.T, e Entry) {
				p, ok := e.(*BlogPost)
				require.True(t, ok)
				require.Equal(t, "me", p.Author)
			},
		},
		{
			path:    "about.md",
			content: "---\ntitle: About\n---\n",
			check: func(t *testing.T, e Entry) {
				_, ok := e.(*Page)
				require.True(t, ok)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			entry, err := Resolve(mustParse(t, tc.path, tc.content))
			require.NoError(t, err)
			require.Equal(t, tc.path, entry.Document().Path())
			tc.check(t, entry)
		})
	}
}

func TestResolve_MissingRequiredField(t *testing.T) {
	doc := mustParse(t, "posts/undated.md", "---\ntitle: Undated\n---\nbody\n")

	_, err := Resolve(doc)
	require.ErrorIs(t, err, ErrMissingRequiredField)

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	field, _ := classified.Context().GetString("field")
	require.Equal(t, "date", field)
	require.Contains(t, err.Error(), "posts/undated.md")
}

func TestResolve_PageWithoutTitleIsDefect(t *testing.T) {
	_, err := Resolve(mustParse(t, "about.md", "---\ndescription: x\n---\n"))
	require.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestResolve_EmptyStringCountsAsMissing(t *testing.T) {
	_, err := Resolve(mustParse(t, "projects/x.md", "---\ntitle: \"  \"\n---\n"))
	require.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestResolve_BaseFields(t *testing.T) {
	entry, err := Resolve(mustParse(t, "posts/a.md",
		"---\ntitle: A\ndate: 2023-04-01\ntags: [react, git]\ndraft: true\nslug: custom\nlayout: wide\n---\n"))
	require.NoError(t, err)

	base := entry.Common()
	require.Equal(t, []string{"react", "git"}, base.Tags)
	require.True(t, base.Draft)
	require.Equal(t, "custom", base.Slug)
	require.Equal(t, "wide", base.Layout)
	require.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), base.SortDate)
}

func TestParseSortDate(t *testing.T) {
	cases := map[string]time.Time{
		"2023-04-01":     time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		"2020 - 2022":    time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		"March 2019":     time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC),
		"since 2015":     time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		"2021 - Present": time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
		"someday":        {},
		"":               {},
	}
	for in, want := range cases {
		require.Equal(t, want, ParseSortDate(in), in)
	}
}
