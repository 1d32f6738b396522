package query_test

import (
	"testing"

	"github.com/covenantlabs/covenant/pkg/query"
)

func analysesProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "analyses", "a").
		Project("id", "id").
		Project("document_id", "documentId").
		Project("perspective", "perspective").
		Project("created_at", "createdAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := analysesProjection()

	t.Run("table", func(t *testing.T) {
		if got := p.Table(); got != "public.analyses a" {
			t.Errorf("Table() = %q, want %q", got, "public.analyses a")
		}
	})

	t.Run("columns", func(t *testing.T) {
		want := "a.id, a.document_id, a.perspective, a.created_at"
		if got := p.Columns(); got != want {
			t.Errorf("Columns() = %q, want %q", got, want)
		}
	})

	t.Run("column lookup", func(t *testing.T) {
		tests := []struct {
			viewName string
			want     string
		}{
			{"documentId", "a.document_id"},
			{"createdAt", "a.created_at"},
			{"unmapped", "unmapped"},
		}
		for _, tt := range tests {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		}
	})
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty string", "", nil},
		{"single ascending", "perspective", []query.SortField{{Field: "perspective"}}},
		{"single descending", "-createdAt", []query.SortField{{Field: "createdAt", Descending: true}}},
		{"multiple mixed", "perspective,-createdAt", []query.SortField{
			{Field: "perspective"},
			{Field: "createdAt", Descending: true},
		}},
		{"spaces trimmed", " perspective , -createdAt ", []query.SortField{
			{Field: "perspective"},
			{Field: "createdAt", Descending: true},
		}},
		{"empty parts skipped", "perspective,,createdAt", []query.SortField{
			{Field: "perspective"},
			{Field: "createdAt"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderQueries(t *testing.T) {
	const selectPrefix = "SELECT a.id, a.document_id, a.perspective, a.created_at FROM public.analyses a"

	t.Run("build without conditions", func(t *testing.T) {
		sql, args := query.NewBuilder(analysesProjection()).Build()
		if sql != selectPrefix {
			t.Errorf("sql = %q, want %q", sql, selectPrefix)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("count", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection())
		b.WhereEquals("perspective", "the service provider")
		sql, args := b.BuildCount()

		want := "SELECT COUNT(*) FROM public.analyses a WHERE a.perspective = $1"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 || args[0] != "the service provider" {
			t.Errorf("args = %v, want [the service provider]", args)
		}
	})

	t.Run("page with default sort", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection(), query.SortField{Field: "createdAt", Descending: true})
		sql, _ := b.BuildPage(2, 10)

		want := selectPrefix + " ORDER BY a.created_at DESC LIMIT 10 OFFSET 10"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})

	t.Run("page with conditions", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection(), query.SortField{Field: "id"})
		b.WhereContains("perspective", ptr("provider"))
		sql, args := b.BuildPage(3, 25)

		want := selectPrefix + " WHERE a.perspective ILIKE $1 ORDER BY a.id ASC LIMIT 25 OFFSET 50"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 || args[0] != "%provider%" {
			t.Errorf("args = %v, want [%%provider%%]", args)
		}
	})

	t.Run("single by id", func(t *testing.T) {
		sql, args := query.NewBuilder(analysesProjection()).BuildSingle("id", "abc-123")

		want := selectPrefix + " WHERE a.id = $1"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 || args[0] != "abc-123" {
			t.Errorf("args = %v, want [abc-123]", args)
		}
	})
}

func TestBuilderConditions(t *testing.T) {
	t.Run("equals skips nil", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection())
		b.WhereEquals("perspective", nil)
		if _, args := b.Build(); len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("equals skips typed nil pointer", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection())
		var perspective *string
		b.WhereEquals("perspective", perspective)
		if _, args := b.Build(); len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("contains wraps pattern", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection())
		b.WhereContains("perspective", ptr("tenant"))
		sql, args := b.Build()

		if wantSuffix := " WHERE a.perspective ILIKE $1"; !hasSuffix(sql, wantSuffix) {
			t.Errorf("sql = %q, want suffix %q", sql, wantSuffix)
		}
		if len(args) != 1 || args[0] != "%tenant%" {
			t.Errorf("args = %v, want [%%tenant%%]", args)
		}
	})

	t.Run("contains skips nil and empty", func(t *testing.T) {
		for _, value := range []*string{nil, ptr("")} {
			b := query.NewBuilder(analysesProjection())
			b.WhereContains("perspective", value)
			if _, args := b.Build(); len(args) != 0 {
				t.Errorf("WhereContains(%v) args = %v, want empty", value, args)
			}
		}
	})

	t.Run("search spans fields with OR", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection())
		b.WhereSearch(ptr("acme"), "perspective", "documentId")
		sql, args := b.Build()

		wantSuffix := " WHERE (a.perspective ILIKE $1 OR a.document_id ILIKE $2)"
		if !hasSuffix(sql, wantSuffix) {
			t.Errorf("sql = %q, want suffix %q", sql, wantSuffix)
		}
		if len(args) != 2 || args[0] != "%acme%" || args[1] != "%acme%" {
			t.Errorf("args = %v, want the pattern twice", args)
		}
	})

	t.Run("search skips nil", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection())
		b.WhereSearch(nil, "perspective")
		if _, args := b.Build(); len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("conditions combine with AND and sequential params", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection())
		b.WhereEquals("documentId", "doc-1")
		b.WhereContains("perspective", ptr("landlord"))
		sql, args := b.Build()

		wantSuffix := " WHERE a.document_id = $1 AND a.perspective ILIKE $2"
		if !hasSuffix(sql, wantSuffix) {
			t.Errorf("sql = %q, want suffix %q", sql, wantSuffix)
		}
		if len(args) != 2 || args[0] != "doc-1" || args[1] != "%landlord%" {
			t.Errorf("args = %v, want [doc-1 %%landlord%%]", args)
		}
	})
}

func TestBuilderOrdering(t *testing.T) {
	t.Run("explicit sort overrides default", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection(), query.SortField{Field: "id"})
		b.OrderByFields([]query.SortField{
			{Field: "createdAt", Descending: true},
			{Field: "perspective"},
		})
		sql, _ := b.Build()

		wantSuffix := " ORDER BY a.created_at DESC, a.perspective ASC"
		if !hasSuffix(sql, wantSuffix) {
			t.Errorf("sql = %q, want suffix %q", sql, wantSuffix)
		}
	})

	t.Run("default sort applies when unset", func(t *testing.T) {
		b := query.NewBuilder(analysesProjection(), query.SortField{Field: "createdAt", Descending: true})
		sql, _ := b.Build()

		wantSuffix := " ORDER BY a.created_at DESC"
		if !hasSuffix(sql, wantSuffix) {
			t.Errorf("sql = %q, want suffix %q", sql, wantSuffix)
		}
	})
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
