// Package menu builds the mobile navigation menu from the session state.
package menu

import (
	"github.com/mwakio197/Dbot-sub001/pkg/theme"
)

const (
	ActionToggleTheme = "toggle_theme"
	ActionLiveChat    = "live_chat"
	ActionLogout      = "logout"
)

type Item struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Icon     string `json:"icon,omitempty"`
	URL      string `json:"url,omitempty"`
	Action   string `json:"action,omitempty"`
	Toggle   bool   `json:"toggle,omitempty"`
	Active   bool   `json:"active,omitempty"`
	Children []Item `json:"children,omitempty"`
}

type Options struct {
	LoggedIn bool
	Virtual  bool
	LiveChat bool
	Reports  bool
	Theme    theme.Theme
}

type entry struct {
	item     Item
	visible  func(Options) bool
	active   func(Options) bool
	children []entry
}

func always(Options) bool     { return true }
func loggedIn(o Options) bool { return o.LoggedIn }

var entries = []entry{
	{item: Item{ID: "trade", Label: "Trade", Icon: "IcTrade", URL: "/"}, visible: always},
	{
		item:    Item{ID: "reports", Label: "Reports", Icon: "IcReports"},
		visible: func(o Options) bool { return o.LoggedIn && o.Reports },
		children: []entry{
			{item: Item{ID: "open-positions", Label: "Open positions", Icon: "IcOpenPositions", URL: "/reports/positions"}, visible: always},
			{item: Item{ID: "trade-table", Label: "Trade table", Icon: "IcProfitTable", URL: "/reports/profit"}, visible: always},
			{item: Item{ID: "statement", Label: "Statement", Icon: "IcStatement", URL: "/reports/statement"}, visible: always},
		},
	},
	{
		item:    Item{ID: "cashier", Label: "Cashier", Icon: "IcCashier"},
		visible: func(o Options) bool { return o.LoggedIn && !o.Virtual },
		children: []entry{
			{item: Item{ID: "deposit", Label: "Deposit", URL: "/cashier/deposit"}, visible: always},
			{item: Item{ID: "withdrawal", Label: "Withdrawal", URL: "/cashier/withdrawal"}, visible: always},
			{item: Item{ID: "transfer", Label: "Transfer", URL: "/cashier/account-transfer"}, visible: always},
		},
	},
	{item: Item{ID: "account-settings", Label: "Account Settings", Icon: "IcAccountSettings", URL: "/account/personal-details"}, visible: loggedIn},
	{
		item:    Item{ID: "dark-theme", Label: "Dark theme", Icon: "IcTheme", Action: ActionToggleTheme, Toggle: true},
		visible: always,
		active:  func(o Options) bool { return o.Theme.IsDark() },
	},
	{item: Item{ID: "help-centre", Label: "Help centre", Icon: "IcHelpCentre", URL: "https://deriv.com/help-centre/"}, visible: always},
	{item: Item{ID: "live-chat", Label: "Live chat", Icon: "IcLiveChat", Action: ActionLiveChat}, visible: func(o Options) bool { return o.LiveChat }},
	{item: Item{ID: "logout", Label: "Log out", Icon: "IcLogout", Action: ActionLogout}, visible: loggedIn},
}

// Build returns the visible menu items in display order.
func Build(opts Options) []Item {
	return build(entries, opts)
}

func build(list []entry, opts Options) []Item {
	var items []Item
	for _, e := range list {
		if !e.visible(opts) {
			continue
		}
		item := e.item
		if e.active != nil {
			item.Active = e.active(opts)
		}
		if len(e.children) > 0 {
			item.Children = build(e.children, opts)
			if len(item.Children) == 0 {
				continue
			}
		}
		items = append(items, item)
	}
	return items
}
