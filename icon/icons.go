package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Warn
	Question
	Progress
	Link
	Cookie
	Video
	History
	Lock
)

// Columns follow the order of variants.
var icons = map[Icon]glyphs{
	Success:  {"✅", "\uf00c", "+", "(ᵔ◡ᵔ)", "🟩"},
	Fail:     {"❌", "\uf00d", "x", "(╯°□°）╯", "🟥"},
	Warn:     {"⚠️", "\uf071", "!", "(・_・;)", "🟨"},
	Question: {"❓", "\uf128", "?", "(・・?)", "🟪"},
	Progress: {"⏳", "\uf110", "~", "(o_o)", "🟦"},
	Link:     {"🔗", "\uf0c1", "@", "(￣▽￣)ノ", "🟫"},
	Cookie:   {"🍪", "\uf1b2", "c", "(っ˘ڡ˘ς)", "🟧"},
	Video:    {"🎬", "\uf03d", ">", "(⌐■_■)", "⬛"},
	History:  {"🕘", "\uf1da", "#", "(-_-)zzz", "⬜"},
	Lock:     {"🔒", "\uf023", "*", "(¬_¬)", "🔳"},
}
