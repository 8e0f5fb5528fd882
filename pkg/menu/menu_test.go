package menu

import (
	"testing"

	"github.com/mwakio197/Dbot-sub001/pkg/theme"
)

func ids(items []Item) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMenu_Build(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "logged out",
			opts: Options{},
			want: []string{"trade", "dark-theme", "help-centre"},
		},
		{
			name: "logged out with live chat",
			opts: Options{LiveChat: true},
			want: []string{"trade", "dark-theme", "help-centre", "live-chat"},
		},
		{
			name: "real account",
			opts: Options{LoggedIn: true, Reports: true},
			want: []string{"trade", "reports", "cashier", "account-settings", "dark-theme", "help-centre", "logout"},
		},
		{
			name: "virtual account has no cashier",
			opts: Options{LoggedIn: true, Virtual: true, Reports: true},
			want: []string{"trade", "reports", "account-settings", "dark-theme", "help-centre", "logout"},
		},
		{
			name: "reports disabled",
			opts: Options{LoggedIn: true, Virtual: true},
			want: []string{"trade", "account-settings", "dark-theme", "help-centre", "logout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Build(tt.opts)); !equal(got, tt.want) {
				t.Errorf("Build() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestMenu_ReportsChildren(t *testing.T) {
	items := Build(Options{LoggedIn: true, Reports: true})

	got := ids(items[1].Children)
	want := []string{"open-positions", "trade-table", "statement"}
	if !equal(got, want) {
		t.Errorf("reports children = %v; want %v", got, want)
	}
}

func TestMenu_ThemeToggleReflectsTheme(t *testing.T) {
	for _, tt := range []struct {
		theme theme.Theme
		want  bool
	}{
		{theme.Light, false},
		{theme.Dark, true},
	} {
		var toggle *Item
		items := Build(Options{Theme: tt.theme})
		for i := range items {
			if items[i].ID == "dark-theme" {
				toggle = &items[i]
			}
		}
		if toggle == nil {
			t.Fatal("dark theme toggle missing")
		}
		if toggle.Active != tt.want || !toggle.Toggle || toggle.Action != ActionToggleTheme {
			t.Errorf("toggle for %s = %+v", tt.theme, *toggle)
		}
	}
}

func TestMenu_DropsEmptyParents(t *testing.T) {
	list := []entry{
		{item: Item{ID: "parent"}, visible: always, children: []entry{
			{item: Item{ID: "hidden"}, visible: func(Options) bool { return false }},
		}},
		{item: Item{ID: "leaf"}, visible: always},
	}

	if got := ids(build(list, Options{})); !equal(got, []string{"leaf"}) {
		t.Errorf("build() = %v; want [leaf]", got)
	}
}

func TestMenu_BuildDoesNotShareChildren(t *testing.T) {
	first := Build(Options{LoggedIn: true, Reports: true})
	first[1].Children[0].Label = "changed"

	second := Build(Options{LoggedIn: true, Reports: true})
	if second[1].Children[0].Label != "Open positions" {
		t.Error("Build returned shared child slices")
	}
}
