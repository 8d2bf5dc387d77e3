package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Progress Icon = iota
	Success
	Fail
	Question
	Search
	Show
	Episode
	Play
	Challenge
	Selected
	Unselected
	Link
	Watched
)

var icons = map[Icon]*iconDef{
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・_・ヾ",
		squares: "◫",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "ok",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "▣",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "x",
		kaomoji: "(×_×)",
		squares: "▨",
	},
	Question: {
		emoji:   "🤔",
		nerd:    "",
		plain:   "?",
		kaomoji: "(¬_¬)",
		squares: "◪",
	},
	Search: {
		emoji:   "🔎",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ﾟヮﾟ)",
		squares: "◎",
	},
	Show: {
		emoji:   "📺",
		nerd:    "",
		plain:   "#",
		kaomoji: "(◕‿◕)",
		squares: "▤",
	},
	Episode: {
		emoji:   "🎞️",
		nerd:    "",
		plain:   "-",
		kaomoji: "(•‿•)",
		squares: "▥",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "▶",
	},
	Challenge: {
		emoji:   "🐱",
		nerd:    "",
		plain:   "!",
		kaomoji: "(=^･ω･^=)",
		squares: "◩",
	},
	Selected: {
		emoji:   "✅",
		nerd:    "",
		plain:   "[x]",
		kaomoji: "(◠‿◠)",
		squares: "■",
	},
	Unselected: {
		emoji:   "⬜",
		nerd:    "",
		plain:   "[ ]",
		kaomoji: "(･_･)",
		squares: "□",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "@",
		kaomoji: "(•ω•)",
		squares: "◈",
	},
	Watched: {
		emoji:   "📌",
		nerd:    "",
		plain:   "*",
		kaomoji: "(˘ᵕ˘)",
		squares: "▪",
	},
}
